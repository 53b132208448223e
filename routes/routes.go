package routes

import (
	"github.com/gin-gonic/gin"

	config "github.com/Anuj-gif-web/helpunity-backend/config"
	controllers "github.com/Anuj-gif-web/helpunity-backend/controllers"
	middleware "github.com/Anuj-gif-web/helpunity-backend/middleware"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	// public
	r.POST("/auth/register", controllers.Register(cfg))
	r.POST("/auth/login", controllers.Login(cfg))
	r.GET("/auth/verify-email", controllers.VerifyEmail(cfg))
	r.POST("/auth/verify-email", controllers.VerifyEmail(cfg))
	r.POST("/auth/resend-verification", controllers.ResendVerification(cfg))

	// protected
	auth := middleware.AuthMiddleware(cfg)

	session := r.Group("/auth")
	session.Use(auth)
	{
		session.GET("/session", controllers.Session(cfg))
		session.POST("/logout", controllers.Logout(cfg))
	}

	verified := middleware.RequireVerified()

	users := r.Group("/users")
	users.Use(auth, verified)
	{
		users.POST("/profile", controllers.SetupProfile(cfg))
		users.GET("/:id", controllers.GetUser(cfg))
		users.PATCH("/:id", controllers.UpdateUser(cfg))
		users.POST("/:id/follow", controllers.FollowUser(cfg))
		users.DELETE("/:id/follow", controllers.UnfollowUser(cfg))
		users.GET("/:id/followers", controllers.ListFollowers(cfg))
		users.GET("/:id/following", controllers.ListFollowing(cfg))
		users.GET("/:id/history", controllers.VolunteerHistory(cfg))
	}

	events := r.Group("/events")
	events.Use(auth, verified)
	{
		events.POST("", controllers.CreateEvent(cfg))
		events.GET("", controllers.ListEvents(cfg))
		events.GET("/:id", controllers.GetEvent(cfg))
		events.PATCH("/:id", controllers.UpdateEvent(cfg))
		events.POST("/:id/like", controllers.ToggleLikeEvent(cfg))
		events.POST("/:id/signup", controllers.SignUpForEvent(cfg))
		events.GET("/:id/participants", controllers.ListParticipants(cfg))
		events.POST("/:id/hours", controllers.LogEventHours(cfg))
	}

	fundraise := r.Group("/fundraise")
	fundraise.Use(auth, verified)
	{
		fundraise.POST("", controllers.CreateFundraisePost(cfg))
		fundraise.GET("", controllers.ListFundraisePosts(cfg))
		fundraise.GET("/:id", controllers.GetFundraisePost(cfg))
		fundraise.PATCH("/:id", controllers.UpdateFundraisePost(cfg))
		fundraise.POST("/:id/like", controllers.ToggleLikeFundraisePost(cfg))
	}

	payments := r.Group("/payments")
	payments.Use(auth, verified)
	{
		payments.POST("/create-account-link", controllers.CreateAccountLink(cfg))
		payments.POST("/create-payment-intent", controllers.CreatePaymentIntent(cfg))
	}
}
