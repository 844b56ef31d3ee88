package controllers

import (
	"context"

	"github.com/adiwicaksana/filmtrack/internal/auth"
	"github.com/adiwicaksana/filmtrack/internal/models"
)

// Backend is the remote collection store: the sheet API client in normal
// operation, the local bolt store in local mode. The backend is stateless
// across calls, so credentials travel with every request. Implementations
// make exactly one attempt per call and report failures as
// models.RemoteError; retrying is nobody's job.
type Backend interface {
	Read(ctx context.Context, creds auth.Credentials) ([]models.Record, error)
	Add(ctx context.Context, creds auth.Credentials, record models.Record) error
	Edit(ctx context.Context, creds auth.Credentials, record models.Record) error
	Delete(ctx context.Context, creds auth.Credentials, rowIndex int) error
}

// AuthBackend handles account verification and creation.
type AuthBackend interface {
	Login(ctx context.Context, creds auth.Credentials) error
	Register(ctx context.Context, creds auth.Credentials) error
}
