package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/filenamedotexe/agency-os-sub006/config"
	"github.com/filenamedotexe/agency-os-sub006/handlers"
	"github.com/filenamedotexe/agency-os-sub006/logging"
	"github.com/filenamedotexe/agency-os-sub006/middleware"
	"github.com/filenamedotexe/agency-os-sub006/models"
	"github.com/filenamedotexe/agency-os-sub006/repositories"
	"github.com/filenamedotexe/agency-os-sub006/services"
	"github.com/filenamedotexe/agency-os-sub006/storage"
	"github.com/filenamedotexe/agency-os-sub006/utils"
)

const outboxDrainInterval = 30 * time.Second

func newBreaker(name string, timeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

func main() {
	logging.InitLogger()
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Agency Service...")

	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_INVALID, Description: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())

	if err := mongoClient.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", cfg.MongoURI)

	db := mongoClient.Database(cfg.MongoDBName)

	notificationRepo, err := repositories.NewNotificationRepo(cfg.CassDB, logging.Logger)
	if err != nil {
		logging.Logger.Fatalf("Event ID: CASS_INIT_FAILED, Description: Failed to initialize notification repository: %v", err)
	}
	defer notificationRepo.CloseSession()
	notificationRepo.CreateTable()

	store, err := storage.NewClient(cfg.StorageEndpoint, cfg.StorageAccessKey, cfg.StorageSecretKey, cfg.StorageUseSSL)
	if err != nil {
		logging.Logger.Fatalf("Event ID: STORAGE_INIT_FAILED, Description: Failed to initialize object storage client: %v", err)
	}
	if err := store.EnsureBuckets(ctx); err != nil {
		logging.Logger.Warnf("Event ID: STORAGE_BUCKETS_FAILED, Description: Failed to ensure storage buckets: %v", err)
	}

	emailBreaker := newBreaker("email-dispatch-cb", 5*time.Second)
	twilioBreaker := newBreaker("twilio-check-cb", 2*time.Second)

	sender := &utils.SMTPSender{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		From:     cfg.SMTPFrom,
		Password: cfg.SMTPPassword,
	}

	outbox := services.NewMongoOutbox(db.Collection("notification_outbox"))
	notifier := services.NewNotificationService(outbox, notificationRepo, sender, emailBreaker)

	profileService := services.NewProfileService(db)
	serviceService := services.NewServiceService(db)
	taskService := services.NewTaskService(db, notifier)
	chatService := services.NewChatService(db)
	knowledgeService := services.NewKnowledgeService(db)

	pageHandler := handlers.NewPageHandler(profileService, serviceService, taskService, chatService, knowledgeService)
	profileHandler := handlers.NewProfileHandler(profileService)
	serviceHandler := handlers.NewServiceHandler(serviceService)
	taskHandler := handlers.NewTaskHandler(taskService)
	messageHandler := handlers.NewMessageHandler(chatService, store, cfg.AppBaseURL)
	magicLinkHandler := handlers.NewMagicLinkHandler(chatService)
	knowledgeHandler := handlers.NewKnowledgeHandler(knowledgeService, store)
	smsHandler := handlers.NewSMSHandler(cfg.TwilioBaseURL, twilioBreaker)
	diagnosticsHandler := handlers.NewDiagnosticsHandler(chatService, store)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, notifier)

	g := &middleware.Guard{Secret: []byte(cfg.JWTSecret)}

	r := mux.NewRouter()

	// Pages: unauthenticated callers are redirected to /login, role mismatches
	// to their own home. Page fetch failures render inline, never a redirect.
	r.Handle("/dashboard", g.PageAny(http.HandlerFunc(pageHandler.Dashboard))).Methods("GET")
	r.Handle("/welcome", g.PageAny(http.HandlerFunc(pageHandler.Welcome))).Methods("GET")
	r.Handle("/admin", g.PageRole(http.HandlerFunc(pageHandler.RoleHome), models.RoleAdmin)).Methods("GET")
	r.Handle("/team", g.PageRole(http.HandlerFunc(pageHandler.RoleHome), models.RoleTeamMember)).Methods("GET")
	r.Handle("/client", g.PageRole(http.HandlerFunc(pageHandler.RoleHome), models.RoleClient)).Methods("GET")
	r.Handle("/services", g.Page(http.HandlerFunc(pageHandler.ServicesPage), middleware.ResourceServices)).Methods("GET")
	r.Handle("/services/{id}", g.Page(http.HandlerFunc(pageHandler.ServiceDetailPage), middleware.ResourceServices)).Methods("GET")
	r.Handle("/clients", g.Page(http.HandlerFunc(pageHandler.ClientsPage), middleware.ResourceClients)).Methods("GET")
	r.Handle("/client/tasks", g.Page(http.HandlerFunc(pageHandler.ClientTasksPage), middleware.ResourceClientTasks)).Methods("GET")
	r.Handle("/messages", g.Page(http.HandlerFunc(pageHandler.MessagesPage), middleware.ResourceMessages)).Methods("GET")
	r.Handle("/knowledge", g.Page(http.HandlerFunc(pageHandler.KnowledgePage), middleware.ResourceKnowledgeRead)).Methods("GET")
	r.Handle("/knowledge/{id}", g.Page(http.HandlerFunc(pageHandler.KnowledgeDetailPage), middleware.ResourceKnowledgeRead)).Methods("GET")
	r.Handle("/admin/emails", g.Page(http.HandlerFunc(notificationHandler.EmailsPage), middleware.ResourceEmailAdmin)).Methods("GET")

	// Magic links carry their own credential; no session guard.
	r.HandleFunc("/m/{token}", magicLinkHandler.Redeem).Methods("GET")

	// API routes: 401/403 JSON, never redirects.
	r.Handle("/api/profiles", g.API(http.HandlerFunc(profileHandler.Enroll), middleware.ResourceClients)).Methods("POST")
	r.Handle("/api/profiles/{id}/role", g.API(http.HandlerFunc(profileHandler.UpdateRole), middleware.ResourceEmailAdmin)).Methods("PUT")

	r.Handle("/api/services", g.API(http.HandlerFunc(serviceHandler.CreateService), middleware.ResourceServices)).Methods("POST")
	r.Handle("/api/services/{id}", g.API(http.HandlerFunc(serviceHandler.DeleteService), middleware.ResourceServices)).Methods("DELETE")
	r.Handle("/api/milestones", g.API(http.HandlerFunc(serviceHandler.CreateMilestone), middleware.ResourceServices)).Methods("POST")

	r.Handle("/api/tasks", g.API(http.HandlerFunc(taskHandler.CreateTask), middleware.ResourceServices)).Methods("POST")
	r.Handle("/api/tasks", g.API(http.HandlerFunc(taskHandler.GetAllTasks), middleware.ResourceServices)).Methods("GET")
	r.Handle("/api/tasks/{id}", g.API(http.HandlerFunc(taskHandler.UpdateTask), middleware.ResourceServices)).Methods("PUT")
	r.Handle("/api/tasks/{id}/assign", g.API(http.HandlerFunc(taskHandler.AssignTask), middleware.ResourceServices)).Methods("POST")

	r.Handle("/api/conversations", g.API(http.HandlerFunc(messageHandler.CreateConversation), middleware.ResourceMessages)).Methods("POST")
	r.Handle("/api/conversations/{id}/messages", g.API(http.HandlerFunc(messageHandler.SendMessage), middleware.ResourceMessages)).Methods("POST")
	r.Handle("/api/conversations/{id}/messages", g.API(http.HandlerFunc(messageHandler.GetMessages), middleware.ResourceMessages)).Methods("GET")
	r.Handle("/api/conversations/{id}/attachments", g.API(http.HandlerFunc(messageHandler.UploadAttachment), middleware.ResourceMessages)).Methods("POST")
	r.Handle("/api/magic-links", g.API(http.HandlerFunc(messageHandler.CreateMagicLink), middleware.ResourceMessages)).Methods("POST")

	r.Handle("/api/knowledge/collections", g.API(http.HandlerFunc(knowledgeHandler.CreateCollection), middleware.ResourceKnowledgeWrite)).Methods("POST")
	r.Handle("/api/knowledge/upload", g.API(http.HandlerFunc(knowledgeHandler.Upload), middleware.ResourceKnowledgeWrite)).Methods("POST")
	r.Handle("/api/knowledge/upload", g.API(http.HandlerFunc(knowledgeHandler.SignedURL), middleware.ResourceKnowledgeRead)).Methods("GET")

	r.Handle("/api/admin/sms-settings/test", g.API(http.HandlerFunc(smsHandler.TestCredentials), middleware.ResourceSMSAdmin)).Methods("POST")

	r.Handle("/api/notifications", g.API(http.HandlerFunc(notificationHandler.GetNotifications), middleware.ResourceNotifications)).Methods("GET")
	r.Handle("/api/notifications/read", g.API(http.HandlerFunc(notificationHandler.MarkRead), middleware.ResourceNotifications)).Methods("PUT")

	r.Handle("/api/test-chat", g.Authenticated(http.HandlerFunc(diagnosticsHandler.TestChat))).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Agency service is running"))
	}).Methods("GET")

	drainCtx, stopDrain := context.WithCancel(context.Background())
	defer stopDrain()
	go notifier.Start(drainCtx, outboxDrainInterval)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.EnableCORS(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_LISTENING, Description: Server is running on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatalf("Event ID: SERVER_FAILED, Description: Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger.Info("Event ID: SERVICE_STOPPING, Description: Shutting down Agency Service...")
	stopDrain()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_SHUTDOWN_FAILED, Description: Graceful shutdown failed: %v", err)
	}
	logging.Logger.Info("Event ID: SERVICE_STOPPED, Description: Agency Service stopped.")
}
