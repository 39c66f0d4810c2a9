package services

import (
	"context"
	"fmt"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingTarget именованная зависимость, доступность которой проверяет PingService.
type PingTarget struct {
	Name string
	Conn Pinger
}

// PingService проверяет доступность базы и (если настроен) кеша.
type PingService struct {
	targets []PingTarget
}

func NewPingService(targets ...PingTarget) *PingService {
	return &PingService{targets: targets}
}

// CheckConnection пингует зависимости по порядку и возвращает первую ошибку.
func (s *PingService) CheckConnection(ctx context.Context) error {
	for _, t := range s.targets {
		if err := t.Conn.Ping(ctx); err != nil {
			return fmt.Errorf("ping %s: %w", t.Name, err)
		}
	}
	return nil
}
