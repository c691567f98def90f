package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wadesk/console-api/internal/core/domain"
	"github.com/wadesk/console-api/internal/core/ports"
)

const keyCollection = "api_keys"

// KeyRepository persists API keys in MongoDB. Single-document updates give
// the per-id atomicity the lifecycle contract relies on: a revoke and an
// update racing on one id end in one operation's complete state.
type KeyRepository struct {
	coll *mongo.Collection
}

func NewKeyRepository(db *mongo.Database) *KeyRepository {
	return &KeyRepository{coll: db.Collection(keyCollection)}
}

// mongoKey is the stored document shape. Timestamps are Unix seconds with
// zero meaning "unset".
type mongoKey struct {
	ID          string   `bson:"_id"`
	Key         string   `bson:"key"`
	OwnerUserID string   `bson:"owner_user_id"`
	Name        string   `bson:"name"`
	Permissions []string `bson:"permissions"`
	CreatedAt   int64    `bson:"created_at"`
	ExpiresAt   int64    `bson:"expires_at"`
	RevokedAt   int64    `bson:"revoked_at"`
	LastUsedAt  int64    `bson:"last_used_at"`
}

// EnsureIndexes creates the unique secret index and the owner index.
// Call once at startup.
func (r *KeyRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "owner_user_id", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

func (r *KeyRepository) Insert(ctx context.Context, key *domain.APIKey) error {
	if _, err := r.coll.InsertOne(ctx, toDoc(key)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrKeyExists
		}
		return fmt.Errorf("insert key: %w", err)
	}
	return nil
}

func (r *KeyRepository) FindByID(ctx context.Context, id string) (*domain.APIKey, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *KeyRepository) FindBySecret(ctx context.Context, secret string) (*domain.APIKey, error) {
	return r.findOne(ctx, bson.M{"key": secret})
}

func (r *KeyRepository) ListByOwner(ctx context.Context, ownerUserID string) ([]*domain.APIKey, error) {
	cur, err := r.coll.Find(ctx, bson.M{"owner_user_id": ownerUserID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer cur.Close(ctx)

	keys := make([]*domain.APIKey, 0)
	for cur.Next(ctx) {
		var mk mongoKey
		if err := cur.Decode(&mk); err != nil {
			return nil, fmt.Errorf("decode key: %w", err)
		}
		keys = append(keys, fromDoc(&mk))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}

func (r *KeyRepository) UpdateMeta(ctx context.Context, id string, patch ports.KeyMetaPatch) (*domain.APIKey, error) {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.ExpiresAt != nil {
		set["expires_at"] = patch.ExpiresAt.Unix()
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	var mk mongoKey
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mk)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("update key: %w", err)
	}
	return fromDoc(&mk), nil
}

// Revoke stamps revoked_at once. The filter guards an already-revoked
// record so a racing second revoke never moves the original timestamp;
// matching zero documents is still success.
func (r *KeyRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "revoked_at": 0},
		bson.M{"$set": bson.M{"revoked_at": at.Unix()}},
	)
	if err != nil {
		return fmt.Errorf("revoke key: %w", err)
	}
	return nil
}

func (r *KeyRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_used_at": at.Unix()}},
	)
	if err != nil {
		return fmt.Errorf("touch key: %w", err)
	}
	return nil
}

func (r *KeyRepository) findOne(ctx context.Context, filter bson.M) (*domain.APIKey, error) {
	var mk mongoKey
	if err := r.coll.FindOne(ctx, filter).Decode(&mk); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("find key: %w", err)
	}
	return fromDoc(&mk), nil
}

func toDoc(k *domain.APIKey) *mongoKey {
	return &mongoKey{
		ID:          k.ID,
		Key:         k.Key,
		OwnerUserID: k.OwnerUserID,
		Name:        k.Name,
		Permissions: k.Permissions,
		CreatedAt:   k.CreatedAt.Unix(),
		ExpiresAt:   timeToUnix(k.ExpiresAt),
		RevokedAt:   timeToUnix(k.RevokedAt),
		LastUsedAt:  timeToUnix(k.LastUsedAt),
	}
}

func fromDoc(mk *mongoKey) *domain.APIKey {
	return &domain.APIKey{
		ID:          mk.ID,
		Key:         mk.Key,
		OwnerUserID: mk.OwnerUserID,
		Name:        mk.Name,
		Permissions: mk.Permissions,
		CreatedAt:   time.Unix(mk.CreatedAt, 0).UTC(),
		ExpiresAt:   unixToTime(mk.ExpiresAt),
		RevokedAt:   unixToTime(mk.RevokedAt),
		LastUsedAt:  unixToTime(mk.LastUsedAt),
	}
}

func timeToUnix(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.Unix()
}

func unixToTime(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}
