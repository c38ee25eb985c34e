package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/vmunix/assetsbridge/internal/bridge"
	"github.com/vmunix/assetsbridge/internal/codec"
	"github.com/vmunix/assetsbridge/internal/config"
	"github.com/vmunix/assetsbridge/internal/history"
	"github.com/vmunix/assetsbridge/internal/scene"
)

// session holds what every command needs: settings, logger, and optionally a scene
// and the history store.
type session struct {
	cfg       *config.Config
	log       *slog.Logger
	scene     *scene.Memory
	scenePath string
	store     *history.Store
}

type sceneMode int

const (
	noScene sceneMode = iota
	requireScene
	createScene // a missing snapshot starts as an empty scene
)

func openSession(mode sceneMode) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	s := &session{cfg: cfg, log: newLogger(cfg.Log.Level)}

	if mode != noScene {
		if err := s.openScene(mode); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return config.Default(), nil
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		lvl = charmlog.InfoLevel
	}
	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           lvl,
		Prefix:          "assetsbridge",
	})
	return slog.New(handler)
}

func (s *session) openScene(mode sceneMode) error {
	path := scenePath
	if path == "" {
		path = s.cfg.Bridge.SceneFile
	}
	if path == "" {
		return errors.New("no scene file: pass --scene or set bridge.scene_file")
	}
	s.scenePath = path

	m, err := scene.LoadMemory(path)
	switch {
	case err == nil:
		s.scene = m
	case mode == createScene && errors.Is(err, os.ErrNotExist):
		s.log.Debug("scene file not found, starting empty", "path", path)
		s.scene = scene.NewMemory()
	default:
		return err
	}
	return nil
}

func (s *session) saveScene() error {
	if err := s.scene.Save(s.scenePath); err != nil {
		return err
	}
	s.log.Debug("scene saved", "path", s.scenePath)
	return nil
}

// recorder opens the history store when enabled. Failures only disable history.
func (s *session) recorder() bridge.Recorder {
	if !s.cfg.History.Enabled {
		return nil
	}
	if s.store == nil {
		store, err := history.Open(s.cfg.History.Path)
		if err != nil {
			s.log.Warn("history disabled", "path", s.cfg.History.Path, "error", err)
			return nil
		}
		s.store = store
	}
	return s.store
}

func (s *session) bridge() *bridge.Bridge {
	return bridge.New(s.scene, codec.NewSnapshot(s.scene, s.log), s.cfg.Operators(taskFile), s.recorder(), s.log)
}

func (s *session) taskFile() string {
	return s.cfg.Operators(taskFile).TaskFile
}

func (s *session) close() {
	if s.store != nil {
		_ = s.store.Close()
	}
}
