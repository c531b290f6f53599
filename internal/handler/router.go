package handler

import (
	"mcq-generator/internal/config"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/middleware"
	"mcq-generator/internal/service"
	"mcq-generator/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// NewApp builds the fiber app with every route and middleware registered.
func NewApp(cfg *config.Config, quizService service.QuizGenerationService, cache domain.Cache) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))

	validator := validation.NewValidator(int64(cfg.Server.BodyLimit))
	pageHandler := NewPageHandler(quizService, validator)
	quizHandler := NewQuizHandler(quizService)
	healthHandler := NewHealthHandler(cache)
	validationMiddleware := middleware.NewValidationMiddleware(validator)

	app.Get("/health", healthHandler.Health)
	app.Get("/swagger/*", swagger.HandlerDefault)

	session := middleware.Session(cfg.Session)

	app.Get("/", session, pageHandler.Index)
	app.Post("/quiz", session, pageHandler.Submit)
	app.Post("/quiz/clear", session, pageHandler.Clear)

	apiGroup := app.Group("/api", session)
	apiGroup.Post("/quizzes", validationMiddleware.ValidateGenerateQuiz(), quizHandler.GenerateQuiz)
	apiGroup.Get("/quizzes/current", quizHandler.GetCurrentQuiz)
	apiGroup.Delete("/quizzes/current", quizHandler.ClearCurrentQuiz)

	return app
}
