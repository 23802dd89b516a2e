package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Окружения из config.Env.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// teeHandler отдает запись в основной вывод, а записи от fileLevel
// и выше дублирует в файл ошибок.
type teeHandler struct {
	main      slog.Handler
	file      slog.Handler
	fileLevel slog.Level
}

func newTeeHandler(main, file slog.Handler, fileLevel slog.Level) *teeHandler {
	return &teeHandler{main: main, file: file, fileLevel: fileLevel}
}

func (t *teeHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return t.main.Enabled(ctx, lvl) || (lvl >= t.fileLevel && t.file.Enabled(ctx, lvl))
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var mainErr error
	if t.main.Enabled(ctx, r.Level) {
		mainErr = t.main.Handle(ctx, r)
	}

	if r.Level < t.fileLevel || !t.file.Enabled(ctx, r.Level) {
		return mainErr
	}

	// файл недоступен - не роняем запрос, но и не молчим
	if err := t.file.Handle(ctx, r.Clone()); err != nil {
		fmt.Fprintf(os.Stderr, "error log write failed: %v\n", err)
	}

	return mainErr
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newTeeHandler(t.main.WithAttrs(attrs), t.file.WithAttrs(attrs), t.fileLevel)
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	return newTeeHandler(t.main.WithGroup(name), t.file.WithGroup(name), t.fileLevel)
}

// newCoreHandler: local - текст, dev - json c debug, prod - json c info.
func newCoreHandler(env string, w *os.File) slog.Handler {
	switch env {
	case envDev:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	case envProd:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// setupLogger возвращает логгер и функцию закрытия файла ошибок.
func setupLogger(env, errorLogPath string) (*slog.Logger, func()) {
	coreHandler := newCoreHandler(env, os.Stdout)

	errorFile, openErr := os.OpenFile(errorLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if openErr != nil {
		log := slog.New(coreHandler)
		log.Warn("Cannot open error log file, continuing without it",
			slog.String("path", errorLogPath),
			slog.Any("error", openErr),
		)
		return log, func() {}
	}

	fileHandler := slog.NewJSONHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelError})

	return slog.New(newTeeHandler(coreHandler, fileHandler, slog.LevelError)), func() { _ = errorFile.Close() }
}
