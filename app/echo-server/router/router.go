package router

import (
	"wildNest/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupHealthRoutes(api *echo.Group, handler *rest.HealthHandler) {
	api.GET("/health", handler.Health)
}

func SetupDrinkRoutes(api *echo.Group, handler *rest.DrinkHandler) {
	drinks := api.Group("/drinks")

	drinks.GET("", handler.GetDrinks)
	drinks.GET("/search", handler.SearchDrinks)
	drinks.GET("/featured", handler.GetFeaturedDrinks)
	drinks.GET("/popular", handler.GetPopularDrinks)
	drinks.GET("/tag", handler.GetDrinksByTag)
	drinks.GET("/:id", handler.GetDrinkByID)
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler) {
	api.GET("/categories", handler.GetAllCategories)
}

// SetupRecommendRoutes registers the guest quiz flow. limiter guards the
// endpoint that runs the engine.
func SetupRecommendRoutes(api *echo.Group, questionHandler *rest.QuestionHandler, handler *rest.RecommendHandler, limiter echo.MiddlewareFunc) {
	reco := api.Group("/recommend")

	reco.GET("/questions", questionHandler.GetQuiz)
	reco.POST("/result", handler.Recommend, limiter)
	reco.GET("/result/:id", handler.GetResult)
	reco.GET("/shared", handler.GetSharedResult)
	reco.GET("/history", handler.History)
	reco.POST("/feedback", handler.Feedback)
}

func SetupAdminAuthRoutes(admin *echo.Group, handler *rest.AdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	auth := admin.Group("/auth")

	auth.POST("/login", handler.Login)
	auth.POST("/logout", handler.Logout, authRequired, adminOnly)
	auth.GET("/me", handler.Me, authRequired, adminOnly)
}

// Routes below expect admin to already carry the auth middleware.

func SetupAdminDrinkRoutes(admin *echo.Group, handler *rest.DrinkHandler) {
	drinks := admin.Group("/drinks")

	drinks.GET("", handler.AdminGetDrinks)
	drinks.GET("/:id", handler.GetDrinkByID)
	drinks.POST("", handler.CreateDrink)
	drinks.PUT("/:id", handler.UpdateDrink)
	drinks.DELETE("/:id", handler.DeleteDrink)
	drinks.PUT("/:id/availability", handler.SetAvailability)
	drinks.PUT("/:id/featured", handler.SetFeatured)
}

func SetupAdminCategoryRoutes(admin *echo.Group, handler *rest.CategoryHandler) {
	categories := admin.Group("/categories")

	categories.GET("", handler.AdminGetAllCategories)
	categories.GET("/:id", handler.GetCategoryByID)
	categories.POST("", handler.CreateCategory)
	categories.PUT("/:id", handler.UpdateCategory)
	categories.DELETE("/:id", handler.DeleteCategory)
}

func SetupAdminQuestionRoutes(admin *echo.Group, handler *rest.QuestionHandler) {
	questions := admin.Group("/questions")

	questions.GET("", handler.GetAllQuestions)
	questions.PUT("/status", handler.SetQuestionStatus)
	questions.GET("/:id", handler.GetQuestionByID)
	questions.POST("", handler.CreateQuestion)
	questions.PUT("/:id", handler.UpdateQuestion)
	questions.DELETE("/:id", handler.DeleteQuestion)

	options := admin.Group("/options")

	options.GET("", handler.GetOptions)
	options.PUT("/status", handler.SetOptionStatus)
	options.POST("", handler.CreateOption)
	options.PUT("/:id", handler.UpdateOption)
	options.DELETE("/:id", handler.DeleteOption)
}

func SetupAdminRuleRoutes(admin *echo.Group, handler *rest.RuleHandler) {
	rules := admin.Group("/rules")

	rules.GET("", handler.GetRules)
	rules.GET("/:id", handler.GetRuleByID)
	rules.POST("", handler.CreateRule)
	rules.PUT("/:id", handler.UpdateRule)
	rules.PUT("/:id/status", handler.SetRuleStatus)
	rules.DELETE("/:id", handler.DeleteRule)
}

func SetupAdminRecommendRoutes(admin *echo.Group, handler *rest.RecommendHandler) {
	reco := admin.Group("/recommend")

	reco.GET("/logs", handler.ListLogs)
	reco.GET("/statistics/overview", handler.Statistics)
	reco.GET("/statistics/daily", handler.DailyStats)
}
