package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"spareeye/backend/internal/model"
)

type redisRepository struct {
	rdb *redis.Client
}

func NewRedisRepository(rdb *redis.Client) Repository {
	return &redisRepository{rdb: rdb}
}

// Key Generation Helpers
func (r *redisRepository) requestKey(id string) string { return fmt.Sprintf("request:%s", id) }
func (r *redisRepository) ownerRequestsKey(owner string) string { return fmt.Sprintf("user:%s:requests", owner) }
func (r *redisRepository) userKey(id string) string { return fmt.Sprintf("user:%s", id) }
func (r *redisRepository) usernameKey(username string) string { return fmt.Sprintf("username:%s", username) }
func (r *redisRepository) settingsKey(userID string) string { return fmt.Sprintf("user:%s:settings", userID) }
func (r *redisRepository) usersKey() string { return "users" }

// --- Request Operations ---

func (r *redisRepository) CreateRequest(ctx context.Context, req *model.DiagnosisRequest) error {
	normalizeRequest(req)
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("could not encode request: %w", err)
	}

	// Newest first: a negative creation time sorts the most recent request lowest.
	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, r.requestKey(req.ID), data, 0)
	pipe.ZAdd(ctx, r.ownerRequestsKey(req.Owner), redis.Z{Score: float64(-req.CreatedAt.UnixNano()), Member: req.ID})
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisRepository) GetRequest(ctx context.Context, id string) (*model.DiagnosisRequest, error) {
	data, err := r.rdb.Get(ctx, r.requestKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var req model.DiagnosisRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("could not decode request %s: %w", id, err)
	}
	normalizeRequest(&req)
	return &req, nil
}

func (r *redisRepository) ListRequests(ctx context.Context, owner string) ([]*model.DiagnosisRequest, error) {
	ids, err := r.rdb.ZRange(ctx, r.ownerRequestsKey(owner), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	requests := make([]*model.DiagnosisRequest, 0, len(ids))
	for _, id := range ids {
		req, err := r.GetRequest(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func (r *redisRepository) UpdateRequest(ctx context.Context, req *model.DiagnosisRequest) error {
	exists, err := r.rdb.Exists(ctx, r.requestKey(req.ID)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}
	normalizeRequest(req)
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("could not encode request: %w", err)
	}
	return r.rdb.Set(ctx, r.requestKey(req.ID), data, 0).Err()
}

func (r *redisRepository) DeleteRequest(ctx context.Context, id string) error {
	req, err := r.GetRequest(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, r.requestKey(id))
	pipe.ZRem(ctx, r.ownerRequestsKey(req.Owner), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute request deletion pipeline: %w", err)
	}
	return nil
}

// --- User Operations ---

func (r *redisRepository) CreateUser(ctx context.Context, user *model.User) error {
	// The username index doubles as the uniqueness constraint.
	ok, err := r.rdb.SetNX(ctx, r.usernameKey(user.Username), user.ID, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicate
	}

	data, err := json.Marshal(redisUser{User: *user, HashedPassword: user.HashedPassword})
	if err != nil {
		return fmt.Errorf("could not encode user: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, r.userKey(user.ID), data, 0)
	pipe.SAdd(ctx, r.usersKey(), user.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		r.rdb.Del(ctx, r.usernameKey(user.Username))
		return err
	}
	return nil
}

func (r *redisRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	data, err := r.rdb.Get(ctx, r.userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var stored redisUser
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("could not decode user %s: %w", id, err)
	}
	user := stored.User
	user.HashedPassword = stored.HashedPassword
	return &user, nil
}

func (r *redisRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	id, err := r.rdb.Get(ctx, r.usernameKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r.GetUserByID(ctx, id)
}

func (r *redisRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	ids, err := r.rdb.SMembers(ctx, r.usersKey()).Result()
	if err != nil {
		return nil, err
	}
	users := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		user, err := r.GetUserByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	sortUsers(users)
	return users, nil
}

func (r *redisRepository) UpdatePassword(ctx context.Context, userID, hashedPassword string) error {
	user, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	user.HashedPassword = hashedPassword
	user.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(redisUser{User: *user, HashedPassword: hashedPassword})
	if err != nil {
		return fmt.Errorf("could not encode user: %w", err)
	}
	return r.rdb.Set(ctx, r.userKey(userID), data, 0).Err()
}

// --- Settings Operations ---

func (r *redisRepository) GetSettings(ctx context.Context, userID string) (*model.Settings, error) {
	data, err := r.rdb.Get(ctx, r.settingsKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var s model.Settings
	return &s, json.Unmarshal(data, &s)
}

func (r *redisRepository) SaveSettings(ctx context.Context, s *model.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("could not encode settings: %w", err)
	}
	return r.rdb.Set(ctx, r.settingsKey(s.UserID), data, 0).Err()
}

// redisUser persists the password hash, which model.User keeps out of JSON.
type redisUser struct {
	model.User
	HashedPassword string `json:"hashedPassword"`
}
