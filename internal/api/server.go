package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/vietanh2810/exhibition-api/docs"
	v1 "github.com/vietanh2810/exhibition-api/internal/api/handler/v1"
	"github.com/vietanh2810/exhibition-api/internal/api/middleware"
	"github.com/vietanh2810/exhibition-api/internal/config"
	"github.com/vietanh2810/exhibition-api/internal/pkg/qrpass"
	"github.com/vietanh2810/exhibition-api/internal/repository"
	"github.com/vietanh2810/exhibition-api/internal/repository/dao"
	"github.com/vietanh2810/exhibition-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	// GateHub must be started with Run before gate feeds are opened.
	GateHub     *v1.GateHub
	Exhibitions *service.ExhibitionService
}

type repositories struct {
	users         *repository.UserRepository
	exhibitions   *repository.ExhibitionRepository
	applications  *repository.ApplicationRepository
	registrations *repository.RegistrationRepository
	properties    *repository.PropertyRepository
}

func newRepositories(db *gorm.DB) repositories {
	return repositories{
		users:         repository.NewUserRepository(dao.NewUserDAO(db)),
		exhibitions:   repository.NewExhibitionRepository(dao.NewExhibitionDAO(db), dao.NewCapacityLedger(db)),
		applications:  repository.NewApplicationRepository(dao.NewApplicationDAO(db)),
		registrations: repository.NewRegistrationRepository(dao.NewRegistrationDAO(db)),
		properties:    repository.NewPropertyRepository(dao.NewPropertyDAO(db)),
	}
}

func NewServer(conf *config.AppConfig, db *gorm.DB, notifier service.Notifier) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	repos := newRepositories(db)

	s.Exhibitions = service.NewExhibitionService(repos.exhibitions, repos.users, notifier)
	exhibitionHandler := v1.NewExhibitionHandler(s.Exhibitions)
	s.GateHub = v1.NewGateHub(s.Exhibitions, conf.API.AllowedCORSDomains)

	userHandler := s.initUserHandler(repos)
	applicationHandler := s.initApplicationHandler(repos, notifier)
	registrationHandler := s.initRegistrationHandler(repos)
	propertyHandler := s.initPropertyHandler(repos)

	s.MountHandlers(userHandler, exhibitionHandler, applicationHandler, registrationHandler, propertyHandler)

	return s
}

func (s *Server) initUserHandler(repos repositories) *v1.UserHandler {
	svc := service.NewUserService(repos.users)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initApplicationHandler(repos repositories, notifier service.Notifier) *v1.ApplicationHandler {
	svc := service.NewApplicationService(repos.applications, repos.exhibitions, repos.users, notifier, s.Config.Notifications.NotifyOnReject)
	handler := v1.NewApplicationHandler(svc)

	return handler
}

func (s *Server) initRegistrationHandler(repos repositories) *v1.RegistrationHandler {
	passes := qrpass.NewEncoder(s.Config.QR.Size)
	svc := service.NewRegistrationService(repos.registrations, repos.exhibitions, repos.users, passes, s.GateHub)
	handler := v1.NewRegistrationHandler(svc)

	return handler
}

func (s *Server) initPropertyHandler(repos repositories) *v1.PropertyHandler {
	svc := service.NewPropertyService(repos.properties, repos.users)
	handler := v1.NewPropertyHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	userHandler *v1.UserHandler,
	exhibitionHandler *v1.ExhibitionHandler,
	applicationHandler *v1.ApplicationHandler,
	registrationHandler *v1.RegistrationHandler,
	propertyHandler *v1.PropertyHandler,
) {
	const basePath = "/api/v1"

	scanLimiter := middleware.NewRateLimiter(s.Config.API.ScanRateLimit, s.Config.API.ScanBurst)

	api := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		api.POST("/users/me", userHandler.HandleEnroll)
		api.GET("/users/me", userHandler.HandleGetMe)
		api.GET("/users/:userID", userHandler.HandleGetUser)

		api.POST("/exhibitor/profile", userHandler.HandleCreateProfile)
		api.GET("/exhibitor/profile/status", userHandler.HandleGetProfileStatus)

		api.POST("/exhibitions", exhibitionHandler.HandleCreateExhibition)
		api.GET("/exhibitions", exhibitionHandler.HandleListExhibitions)
		api.GET("/exhibitions/:exhibitionID", exhibitionHandler.HandleGetExhibition)
		api.PATCH("/exhibitions/:exhibitionID", exhibitionHandler.HandleUpdateExhibition)
		api.PUT("/exhibitions/:exhibitionID/capacity", exhibitionHandler.HandleResizeCapacity)
		api.DELETE("/exhibitions/:exhibitionID", exhibitionHandler.HandleDeleteExhibition)

		api.POST("/exhibitions/:exhibitionID/applications", applicationHandler.HandleApply)
		api.GET("/exhibitions/:exhibitionID/applications", applicationHandler.HandleListExhibitionApplications)
		api.GET("/applications/mine", applicationHandler.HandleListMyApplications)
		api.GET("/applications/:applicationID", applicationHandler.HandleGetApplication)
		api.POST("/applications/:applicationID/approve", applicationHandler.HandleApprove)
		api.POST("/applications/:applicationID/reject", applicationHandler.HandleReject)

		api.POST("/exhibitions/:exhibitionID/registrations", registrationHandler.HandleRegister)
		api.GET("/exhibitions/:exhibitionID/registrations", registrationHandler.HandleListExhibitionRegistrations)
		api.GET("/registrations/mine", registrationHandler.HandleListMyRegistrations)
		api.GET("/registrations/:registrationID", registrationHandler.HandleGetRegistration)
		api.DELETE("/registrations/:registrationID", registrationHandler.HandleCancelRegistration)
		api.GET("/registrations/:registrationID/pass.png", registrationHandler.HandleGetPass)
		api.POST("/registrations/:registrationID/toggle-check-in", registrationHandler.HandleToggleCheckIn)
		api.POST("/scan", scanLimiter.Limit(), registrationHandler.HandleScan)

		// Gate feed
		api.GET("/exhibitions/:exhibitionID/gate/feed", s.GateHub.HandleGateFeed)

		api.POST("/properties", propertyHandler.HandleCreateProperty)
		api.GET("/properties", propertyHandler.HandleListProperties)
		api.GET("/properties/mine", propertyHandler.HandleListMyProperties)
		api.DELETE("/properties/:propertyID", propertyHandler.HandleDeleteProperty)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Exhibition API"
	docs.SwaggerInfo.Description = "Exhibitions, booth applications, visitor registrations and gate check-in."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
