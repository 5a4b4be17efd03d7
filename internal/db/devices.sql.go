package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const deviceColumns = `id, user_id, library_id, credential_id, public_key, sign_count, current_challenge,
challenge_session, challenge_expires_at, challenge_used_at, active, last_active_at, created_at`

func scanDevice(row interface{ Scan(...interface{}) error }) (Device, error) {
	var i Device
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.LibraryID,
		&i.CredentialID,
		&i.PublicKey,
		&i.SignCount,
		&i.CurrentChallenge,
		&i.ChallengeSession,
		&i.ChallengeExpiresAt,
		&i.ChallengeUsedAt,
		&i.Active,
		&i.LastActiveAt,
		&i.CreatedAt,
	)
	return i, err
}

func collectDevices(rows pgx.Rows) ([]Device, error) {
	defer rows.Close()
	var items []Device
	for rows.Next() {
		i, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createDevice = `-- name: CreateDevice :one
INSERT INTO devices (user_id, library_id, current_challenge, challenge_session, challenge_expires_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + deviceColumns

type CreateDeviceParams struct {
	UserID             uuid.UUID          `json:"user_id"`
	LibraryID          string             `json:"library_id"`
	CurrentChallenge   pgtype.Text        `json:"current_challenge"`
	ChallengeSession   []byte             `json:"challenge_session"`
	ChallengeExpiresAt pgtype.Timestamptz `json:"challenge_expires_at"`
}

func (q *Queries) CreateDevice(ctx context.Context, arg CreateDeviceParams) (Device, error) {
	return scanDevice(q.db.QueryRow(ctx, createDevice,
		arg.UserID,
		arg.LibraryID,
		arg.CurrentChallenge,
		arg.ChallengeSession,
		arg.ChallengeExpiresAt,
	))
}

const getDevice = `-- name: GetDevice :one
SELECT ` + deviceColumns + ` FROM devices WHERE id = $1`

func (q *Queries) GetDevice(ctx context.Context, id uuid.UUID) (Device, error) {
	return scanDevice(q.db.QueryRow(ctx, getDevice, id))
}

const getDeviceByLibraryID = `-- name: GetDeviceByLibraryID :one
SELECT ` + deviceColumns + ` FROM devices WHERE library_id = $1`

func (q *Queries) GetDeviceByLibraryID(ctx context.Context, libraryID string) (Device, error) {
	return scanDevice(q.db.QueryRow(ctx, getDeviceByLibraryID, libraryID))
}

const listLoginCandidates = `-- name: ListLoginCandidates :many
SELECT ` + deviceColumns + ` FROM devices
WHERE user_id = $1 AND active AND credential_id IS NOT NULL AND public_key IS NOT NULL
ORDER BY created_at`

func (q *Queries) ListLoginCandidates(ctx context.Context, userID uuid.UUID) ([]Device, error) {
	rows, err := q.db.Query(ctx, listLoginCandidates, userID)
	if err != nil {
		return nil, err
	}
	return collectDevices(rows)
}

const listActiveDevices = `-- name: ListActiveDevices :many
SELECT ` + deviceColumns + ` FROM devices
WHERE active AND public_key IS NOT NULL
ORDER BY created_at`

func (q *Queries) ListActiveDevices(ctx context.Context) ([]Device, error) {
	rows, err := q.db.Query(ctx, listActiveDevices)
	if err != nil {
		return nil, err
	}
	return collectDevices(rows)
}

const setDeviceChallenge = `-- name: SetDeviceChallenge :exec
UPDATE devices
SET current_challenge = $2, challenge_session = $3, challenge_expires_at = $4, challenge_used_at = NULL
WHERE id = $1`

type SetDeviceChallengeParams struct {
	ID                 uuid.UUID          `json:"id"`
	CurrentChallenge   pgtype.Text        `json:"current_challenge"`
	ChallengeSession   []byte             `json:"challenge_session"`
	ChallengeExpiresAt pgtype.Timestamptz `json:"challenge_expires_at"`
}

func (q *Queries) SetDeviceChallenge(ctx context.Context, arg SetDeviceChallengeParams) error {
	_, err := q.db.Exec(ctx, setDeviceChallenge, arg.ID, arg.CurrentChallenge, arg.ChallengeSession, arg.ChallengeExpiresAt)
	return err
}

// The public key guard keeps a registered key immutable; a second activation matches no row.
const activateDevice = `-- name: ActivateDevice :one
UPDATE devices
SET credential_id = $2, public_key = $3, sign_count = $4, active = TRUE,
    current_challenge = NULL, challenge_session = NULL, challenge_expires_at = NULL,
    challenge_used_at = NULL, last_active_at = NOW()
WHERE id = $1 AND public_key IS NULL
RETURNING ` + deviceColumns

type ActivateDeviceParams struct {
	ID           uuid.UUID `json:"id"`
	CredentialID string    `json:"credential_id"`
	PublicKey    []byte    `json:"public_key"`
	SignCount    int64     `json:"sign_count"`
}

func (q *Queries) ActivateDevice(ctx context.Context, arg ActivateDeviceParams) (Device, error) {
	return scanDevice(q.db.QueryRow(ctx, activateDevice, arg.ID, arg.CredentialID, arg.PublicKey, arg.SignCount))
}

// Consumes the challenge at most once; a lost race affects no row. The
// counter never moves backwards.
const markDeviceLogin = `-- name: MarkDeviceLogin :execrows
UPDATE devices
SET sign_count = GREATEST(sign_count, $2), challenge_used_at = $3, last_active_at = $3
WHERE id = $1 AND current_challenge = $4 AND challenge_used_at IS NULL`

type MarkDeviceLoginParams struct {
	ID        uuid.UUID          `json:"id"`
	SignCount int64              `json:"sign_count"`
	UsedAt    pgtype.Timestamptz `json:"used_at"`
	Challenge string             `json:"challenge"`
}

func (q *Queries) MarkDeviceLogin(ctx context.Context, arg MarkDeviceLoginParams) (int64, error) {
	tag, err := q.db.Exec(ctx, markDeviceLogin, arg.ID, arg.SignCount, arg.UsedAt, arg.Challenge)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// A login challenge is shared by every candidate device; once one device
// consumes it the others lose it.
const clearSiblingChallenges = `-- name: ClearSiblingChallenges :exec
UPDATE devices
SET current_challenge = NULL, challenge_session = NULL, challenge_expires_at = NULL
WHERE user_id = $1 AND id <> $2 AND current_challenge = $3`

type ClearSiblingChallengesParams struct {
	UserID    uuid.UUID `json:"user_id"`
	KeepID    uuid.UUID `json:"keep_id"`
	Challenge string    `json:"challenge"`
}

func (q *Queries) ClearSiblingChallenges(ctx context.Context, arg ClearSiblingChallengesParams) error {
	_, err := q.db.Exec(ctx, clearSiblingChallenges, arg.UserID, arg.KeepID, arg.Challenge)
	return err
}
