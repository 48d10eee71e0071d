package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/board-system/board-api/internal/core/domain"
	"github.com/board-system/board-api/internal/core/ports"
)

const (
	rolesCollection    = "roles"
	countersCollection = "counters"
)

// MongoRoleRepository stores roles with sequential int64 ids drawn from a
// counters document.
type MongoRoleRepository struct {
	client   *mongo.Client
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewRoleRepository(client *mongo.Client, db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{
		client:   client,
		coll:     db.Collection(rolesCollection),
		counters: db.Collection(countersCollection),
	}
}

type mongoRole struct {
	ID          int64    `bson:"_id"`
	Name        string   `bson:"name"`
	NameLower   string   `bson:"name_lower"`
	Permissions []string `bson:"permissions"`
	CreatedAt   int64    `bson:"created_at"`
	UpdatedAt   int64    `bson:"updated_at"`
}

func toMongoRole(r *domain.Role) mongoRole {
	return mongoRole{
		ID:          r.ID,
		Name:        r.Name,
		NameLower:   strings.ToLower(r.Name),
		Permissions: r.Permissions,
		CreatedAt:   r.CreatedAt.Unix(),
		UpdatedAt:   r.UpdatedAt.Unix(),
	}
}

func (mr mongoRole) toDomain() *domain.Role {
	perms := mr.Permissions
	if perms == nil {
		perms = []string{}
	}
	return &domain.Role{
		ID:          mr.ID,
		Name:        mr.Name,
		Permissions: perms,
		CreatedAt:   unixToTime(mr.CreatedAt),
		UpdatedAt:   unixToTime(mr.UpdatedAt),
	}
}

func (r *MongoRoleRepository) FindAll(ctx context.Context) ([]*domain.Role, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRole
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	out := make([]*domain.Role, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *MongoRoleRepository) FindByID(ctx context.Context, id int64) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"name_lower": strings.ToLower(strings.TrimSpace(name))})
}

func (r *MongoRoleRepository) findOne(ctx context.Context, filter bson.M) (*domain.Role, error) {
	var mr mongoRole
	if err := r.coll.FindOne(ctx, filter).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *MongoRoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}
	doc := toMongoRole(role)
	doc.ID = id

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRoleExists
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return doc.toDomain(), nil
}

// Update runs find, mutate and replace inside a session transaction. Replica
// sets are required for multi-document transactions; on a standalone server
// the replace is still filtered on the loaded updated_at.
func (r *MongoRoleRepository) Update(ctx context.Context, id int64, mutate ports.RoleMutation) (*domain.Role, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	out, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var current mongoRole
		if err := r.coll.FindOne(sc, bson.M{"_id": id}).Decode(&current); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, domain.ErrRoleNotFound
			}
			return nil, err
		}

		role := current.toDomain()
		if err := mutate(role); err != nil {
			return nil, err
		}

		next := toMongoRole(role)
		res, err := r.coll.ReplaceOne(sc, bson.M{"_id": id, "updated_at": current.UpdatedAt}, next)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrRoleExists
			}
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, fmt.Errorf("role %d modified concurrently", id)
		}
		return role, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*domain.Role), nil
}

func (r *MongoRoleRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

func (r *MongoRoleRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": rolesCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next role id: %w", err)
	}
	return counter.Seq, nil
}

