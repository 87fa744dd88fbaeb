package participant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dialog-crowd/tablechat/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes and keys for Redis
	participantKeyPrefix = "participant:"
	participantSetKey    = "participants"
	roomCounterKey       = "room_counter"
)

var (
	// ErrParticipantNotFound is returned when a participant row does not exist
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrTransactionConflict is returned when a concurrent write invalidated
	// the optimistic transaction; the operation had no effect
	ErrTransactionConflict = errors.New("ledger transaction conflict")

	// ErrStatusMismatch is returned when a RequireStatus precondition failed
	// at commit time; the operation had no effect
	ErrStatusMismatch = errors.New("participant status precondition failed")
)

// Config holds configuration for the Redis participant repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed participant repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// EnsureParticipant idempotently creates a ledger row
func (r *redisRepository) EnsureParticipant(ctx context.Context, input *EnsureParticipantInput) (*EnsureParticipantOutput, error) {
	if input == nil || input.Participant == nil {
		return nil, errors.New("input and participant cannot be nil")
	}

	p := input.Participant
	if p.ID == "" {
		return nil, errors.New("participant ID cannot be empty")
	}

	participantJSON, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal participant: %w", err)
	}

	key := participantKeyPrefix + p.ID

	// SETNX keeps the create idempotent: a second first-contact request is a no-op
	created, err := r.client.SetNX(ctx, key, participantJSON, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	if err := r.client.SAdd(ctx, participantSetKey, p.ID).Err(); err != nil {
		return nil, fmt.Errorf("failed to index participant: %w", err)
	}

	return &EnsureParticipantOutput{
		Created: created,
	}, nil
}

// GetParticipant retrieves a participant by ID from Redis
func (r *redisRepository) GetParticipant(ctx context.Context, input *GetParticipantInput) (*models.Participant, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, errors.New("input and participant ID cannot be empty")
	}

	key := participantKeyPrefix + input.ParticipantID
	participantJSON, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	var p models.Participant
	if err := json.Unmarshal([]byte(participantJSON), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal participant: %w", err)
	}

	return &p, nil
}

// UpdateParticipant applies a patch to one row under an optimistic transaction.
// The row is re-read inside WATCH, so the patch always lands on the latest
// committed state or not at all.
func (r *redisRepository) UpdateParticipant(ctx context.Context, input *UpdateParticipantInput) (*models.Participant, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, errors.New("input and participant ID cannot be empty")
	}

	if input.Patch == nil {
		return nil, errors.New("patch cannot be nil")
	}

	key := participantKeyPrefix + input.ParticipantID

	var updated *models.Participant
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		p, err := readParticipant(ctx, tx, key)
		if err != nil {
			return err
		}

		if input.RequireStatus != nil && p.Status != *input.RequireStatus {
			return ErrStatusMismatch
		}

		input.Patch.Apply(p, input.Now)

		participantJSON, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal participant: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, participantJSON, 0)
			return nil
		})
		if err != nil {
			return err
		}

		updated = p
		return nil
	}, key)

	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return nil, ErrTransactionConflict
		}
		return nil, err
	}

	return updated, nil
}

// UpdatePair applies two patches to two rows under one WATCH spanning both
// keys. A concurrent write to either row fails the whole transaction and
// leaves neither row changed.
func (r *redisRepository) UpdatePair(ctx context.Context, input *UpdatePairInput) (*UpdatePairOutput, error) {
	if input == nil || input.First == nil || input.Second == nil {
		return nil, errors.New("input and both pair updates cannot be nil")
	}

	if input.First.ParticipantID == "" || input.Second.ParticipantID == "" {
		return nil, errors.New("participant IDs cannot be empty")
	}

	if input.First.ParticipantID == input.Second.ParticipantID {
		return nil, errors.New("pair updates must reference distinct participants")
	}

	if input.First.Patch == nil || input.Second.Patch == nil {
		return nil, errors.New("patches cannot be nil")
	}

	firstKey := participantKeyPrefix + input.First.ParticipantID
	secondKey := participantKeyPrefix + input.Second.ParticipantID

	var out *UpdatePairOutput
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		first, err := readParticipant(ctx, tx, firstKey)
		if err != nil {
			return err
		}

		second, err := readParticipant(ctx, tx, secondKey)
		if err != nil {
			return err
		}

		if input.First.RequireStatus != nil && first.Status != *input.First.RequireStatus {
			return ErrStatusMismatch
		}

		if input.Second.RequireStatus != nil && second.Status != *input.Second.RequireStatus {
			return ErrStatusMismatch
		}

		input.First.Patch.Apply(first, input.Now)
		input.Second.Patch.Apply(second, input.Now)

		firstJSON, err := json.Marshal(first)
		if err != nil {
			return fmt.Errorf("failed to marshal participant: %w", err)
		}

		secondJSON, err := json.Marshal(second)
		if err != nil {
			return fmt.Errorf("failed to marshal participant: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, firstKey, firstJSON, 0)
			pipe.Set(ctx, secondKey, secondJSON, 0)
			return nil
		})
		if err != nil {
			return err
		}

		out = &UpdatePairOutput{
			First:  first,
			Second: second,
		}
		return nil
	}, firstKey, secondKey)

	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return nil, ErrTransactionConflict
		}
		return nil, err
	}

	return out, nil
}

// ListWaiting retrieves all connected participants in the waiting status
func (r *redisRepository) ListWaiting(ctx context.Context, input *ListWaitingInput) (*ListWaitingOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	ids, err := r.client.SMembers(ctx, participantSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list participant IDs: %w", err)
	}

	if len(ids) == 0 {
		return &ListWaitingOutput{
			Participants: []*models.Participant{},
		}, nil
	}

	// Fetch all rows in one round trip
	pipe := r.client.Pipeline()
	commands := make(map[string]*redis.StringCmd, len(ids))

	for _, id := range ids {
		if id == input.ExcludeID {
			continue
		}
		commands[id] = pipe.Get(ctx, participantKeyPrefix+id)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	waiting := make([]*models.Participant, 0, len(commands))
	for id, cmd := range commands {
		participantJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Row removed between listing and fetching
				continue
			}
			return nil, fmt.Errorf("failed to get participant %s: %w", id, err)
		}

		var p models.Participant
		if err := json.Unmarshal([]byte(participantJSON), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal participant %s: %w", id, err)
		}

		if p.Status == models.StatusWaiting && p.Connected {
			waiting = append(waiting, &p)
		}
	}

	return &ListWaitingOutput{
		Participants: waiting,
	}, nil
}

// NextRoomID reserves the next room identifier. INCR makes the sequence
// strictly monotonic across concurrent pairings; ids are never reused.
func (r *redisRepository) NextRoomID(ctx context.Context, input *NextRoomIDInput) (*NextRoomIDOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	roomID, err := r.client.Incr(ctx, roomCounterKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to reserve room ID: %w", err)
	}

	return &NextRoomIDOutput{
		RoomID: int(roomID),
	}, nil
}

// readParticipant fetches and unmarshals one row inside a WATCH transaction
func readParticipant(ctx context.Context, tx *redis.Tx, key string) (*models.Participant, error) {
	participantJSON, err := tx.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	var p models.Participant
	if err := json.Unmarshal([]byte(participantJSON), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal participant: %w", err)
	}

	return &p, nil
}
