package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
)

type Status struct {
	DB       bool `json:"db"`
	Sessions bool `json:"sessions"`
}

type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// StatsService reports store liveness and record counts.
type StatsService struct {
	repos    repomanager.RepositoryManager
	sessions *SessionService
}

func NewStatsService(repos repomanager.RepositoryManager, sessions *SessionService) *StatsService {
	return &StatsService{repos: repos, sessions: sessions}
}

func (s *StatsService) Status(ctx context.Context) Status {
	return Status{
		DB:       s.repos.Ping(ctx) == nil,
		Sessions: s.sessions.Ping(ctx) == nil,
	}
}

func (s *StatsService) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.repos.Users().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}
	files, err := s.repos.Files().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting files: %w", err)
	}
	return &Stats{Users: users, Files: files}, nil
}
