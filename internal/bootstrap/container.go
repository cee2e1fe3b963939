package bootstrap

import (
	"context"
	"log"

	"github.com/momonga11/notenext-server/internal/config"
	"github.com/momonga11/notenext-server/internal/controller"
	"github.com/momonga11/notenext-server/internal/handler"
	"github.com/momonga11/notenext-server/internal/pkg/logger"
	"github.com/momonga11/notenext-server/internal/pkg/mailer"
	"github.com/momonga11/notenext-server/internal/repository/unitofwork"
	"github.com/momonga11/notenext-server/internal/service"
	"github.com/momonga11/notenext-server/internal/websocket"
	"github.com/momonga11/notenext-server/pkg/blobstore"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const activityTopic = "activity"

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	UserController    controller.IUserController
	ProjectController controller.IProjectController
	FolderController  controller.IFolderController
	NoteController    controller.INoteController
	TaskController    controller.ITaskController

	// Background services (run by main)
	ConsumerService service.IConsumerService

	// WebSockets
	ActivityHandler *handler.ActivityHandler
	WebSocketHub    *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// Blob storage
	var blobs blobstore.BlobStorage
	if cfg.Storage.Driver == "s3" {
		s3Store, err := blobstore.NewS3Storage(context.Background(),
			cfg.Storage.S3Bucket, cfg.Storage.S3Region, cfg.Storage.S3PublicURL)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize S3 storage: %v", err)
		}
		blobs = s3Store
	} else {
		diskStore, err := blobstore.NewDiskStorage(cfg.Storage.UploadDir, cfg.App.BaseURL)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize disk storage: %v", err)
		}
		blobs = diskStore
	}

	// WebSocket hub
	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()

	// Services
	publisherService := service.NewPublisherService(activityTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, activityTopic, wsHub, sysLogger)

	authorizer := service.NewAuthorizer(uowFactory)
	attachments := service.NewAttachmentStore(uowFactory, blobs, cfg.Storage)
	reconciler := service.NewImageReconciler(attachments, sysLogger)

	authService := service.NewAuthService(uowFactory, emailService, attachments, rdb, sysLogger)
	userService := service.NewUserService(uowFactory, attachments, sysLogger)
	projectService := service.NewProjectService(uowFactory, authorizer, attachments, publisherService, sysLogger)
	folderService := service.NewFolderService(uowFactory, authorizer, attachments, publisherService, sysLogger)
	noteService := service.NewNoteService(uowFactory, authorizer, attachments, reconciler, publisherService, sysLogger)
	taskService := service.NewTaskService(uowFactory, authorizer, publisherService, sysLogger)

	return &Container{
		AuthController:    controller.NewAuthController(authService),
		UserController:    controller.NewUserController(userService),
		ProjectController: controller.NewProjectController(projectService),
		FolderController:  controller.NewFolderController(folderService),
		NoteController:    controller.NewNoteController(noteService),
		TaskController:    controller.NewTaskController(taskService),

		ConsumerService: consumerService,

		ActivityHandler: handler.NewActivityHandler(wsHub, sysLogger),
		WebSocketHub:    wsHub,

		Logger: sysLogger,
	}
}
