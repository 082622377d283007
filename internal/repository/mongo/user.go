package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dtroode/storefront-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// userDocument is the stored shape of a user. Ids are kept as strings.
type userDocument struct {
	ID        string        `bson:"_id"`
	Fullname  string        `bson:"fullname"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password"`
	IsAdmin   bool          `bson:"isAdmin"`
	Address   model.Address `bson:"address"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func toUserDocument(u model.User) userDocument {
	return userDocument{
		ID:        u.ID.String(),
		Fullname:  u.Fullname,
		Email:     u.Email,
		Password:  string(u.PasswordHash),
		IsAdmin:   u.IsAdmin,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (d userDocument) toModel() (model.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.User{}, fmt.Errorf("invalid user id %q: %w", d.ID, err)
	}
	return model.User{
		ID:           id,
		Fullname:     d.Fullname,
		Email:        d.Email,
		PasswordHash: []byte(d.Password),
		IsAdmin:      d.IsAdmin,
		Address:      d.Address,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

type UserRepository struct {
	users *mongo.Collection
	now   func() time.Time
}

func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{users: conn.collection(usersCollection), now: time.Now}
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (model.User, error) {
	var doc userDocument
	err := r.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, model.ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return doc.toModel()
}

// GetByEmail matches the stored lower-cased email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	user, err := r.findOne(ctx, bson.M{"email": normalizeEmail(email)})
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := r.findOne(ctx, bson.M{"_id": id.String()})
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, err
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	user.Email = normalizeEmail(user.Email)
	doc := toUserDocument(user)

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return doc.toModel()
}

func (r *UserRepository) updateOne(ctx context.Context, id uuid.UUID, update bson.M) (model.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": id.String()}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, model.ErrNotFound
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, err
	}
	return doc.toModel()
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (model.User, error) {
	set := bson.M{"updatedAt": r.now().UTC()}
	if update.Fullname != nil {
		set["fullname"] = *update.Fullname
	}
	if update.Email != nil {
		set["email"] = normalizeEmail(*update.Email)
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}

	user, err := r.updateOne(ctx, id, bson.M{"$set": set})
	if err != nil && !errors.Is(err, model.ErrNotFound) && !errors.Is(err, model.ErrConflict) {
		return model.User{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash []byte) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": bson.M{
		"password":  string(passwordHash),
		"updatedAt": r.now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

// SetAdmin raises the flag with a single atomic document update.
func (r *UserRepository) SetAdmin(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := r.updateOne(ctx, id, bson.M{"$set": bson.M{
		"isAdmin":   true,
		"updatedAt": r.now().UTC(),
	}})
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to set admin flag: %w", err)
	}
	return user, err
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	cur, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]model.User, 0, len(docs))
	for _, d := range docs {
		u, err := d.toModel()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}
