package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/runlog/runlog-api/internal/config"
	"github.com/runlog/runlog-api/internal/database"
	"github.com/runlog/runlog-api/internal/handler"
	"github.com/runlog/runlog-api/internal/repository"
	"github.com/runlog/runlog-api/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	runs := repository.NewRunRepo(db)
	comments := repository.NewCommentRepo(db)
	intervals := repository.NewIntervalRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e, cfg.JWTSecret,
		handler.NewAuthHandler(cfg, users),
		handler.NewUserHandler(cfg, users, runs),
		handler.NewRunHandler(users, runs, comments, intervals),
		handler.NewCommentHandler(users, runs, comments))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
