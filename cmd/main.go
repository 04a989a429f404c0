package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	httpapi "github.com/immxrtalbeast/huddle/internal/api/http"
	"github.com/immxrtalbeast/huddle/internal/api/ws"
	"github.com/immxrtalbeast/huddle/internal/auth"
	"github.com/immxrtalbeast/huddle/internal/config"
	"github.com/immxrtalbeast/huddle/internal/repository"
	"github.com/immxrtalbeast/huddle/internal/repository/model"
	"github.com/immxrtalbeast/huddle/internal/service"
	"github.com/immxrtalbeast/huddle/lib/logger/sl"
	"github.com/immxrtalbeast/huddle/lib/logger/slogpretty"
	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	userRepo, roomRepo, profileRepo, pollRepo := openRepositories(cfg.Storage, log)

	presence := service.NewPresenceTracker()
	gateway := ws.NewGateway(presence, log)
	callService := service.NewCallService(gateway, log)
	gateway.AttachCalls(callService)

	roomService := service.NewRoomService(roomRepo, profileRepo, callService, log)
	pollService := service.NewPollService(pollRepo, log)
	userService := service.NewUserService(userRepo, auth.NewBcryptHasher(), roomService, presence, log)

	ctx := context.Background()
	if err := roomService.Load(ctx); err != nil {
		log.Error("failed to load registry", sl.Err(err))
		os.Exit(1)
	}
	if err := pollService.Load(ctx); err != nil {
		log.Error("failed to load polls", sl.Err(err))
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		log.Error("failed to create uploads dir", sl.Err(err))
		os.Exit(1)
	}

	userController := httpapi.NewUserController(userService, roomService, presence)
	roomController := httpapi.NewRoomController(roomService, cfg.Uploads.Dir)
	pollController := httpapi.NewPollController(pollService)

	router := httpapi.SetupRouter(userController, roomController, pollController, gateway, cfg.Uploads.Dir)

	log.Info("starting application", slog.String("addr", cfg.HTTP.Address))
	if err := router.Run(cfg.HTTP.Address); err != nil {
		log.Error("http server stopped", sl.Err(err))
		os.Exit(1)
	}
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

// openRepositories opens the sqlite store. A missing file is created; an
// unreadable one is logged and the process falls back to empty in-memory
// repositories so startup never fails on a corrupt store.
func openRepositories(cfg config.StorageConfig, log *slog.Logger) (
	repository.UserRepository,
	repository.RoomRepository,
	repository.ProfileRepository,
	repository.PollRepository,
) {
	db, err := openStorage(cfg.Path)
	if err != nil {
		log.Error("failed to open storage, falling back to in-memory state", sl.Err(err))
		return repository.NewInMemoryUserRepository(),
			repository.NewInMemoryRoomRepository(),
			repository.NewInMemoryProfileRepository(),
			repository.NewInMemoryPollRepository()
	}

	log.Info("storage opened", slog.String("path", cfg.Path))
	return repository.NewSqliteUserRepository(db),
		repository.NewSqliteRoomRepository(db),
		repository.NewSqliteProfileRepository(db),
		repository.NewSqlitePollRepository(db)
}

func openStorage(path string) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Room{},
		&model.Message{},
		&model.Profile{},
		&model.Poll{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
