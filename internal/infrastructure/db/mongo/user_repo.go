package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/baechuer/course-feedback/internal/domain"
)

type UserRepo struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{coll: db.Collection(usersCollection), now: time.Now}
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.D) (domain.User, error) {
	var d userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return d.toDomain(), nil
}

func (r *UserRepo) updateOne(ctx context.Context, filter, update bson.D) (domain.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d userDoc
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return d.toDomain(), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if u.ID == "" || u.PasswordHash == "" {
		return domain.User{}, domain.ErrInternal(errors.New("user id and password hash are required"))
	}
	if u.Role == "" {
		u.Role = string(domain.RoleStudent)
	}
	now := r.now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, userToDoc(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return u, nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: userID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "passwordHash", Value: newHash},
			{Key: "updatedAt", Value: r.now().UTC()},
		}}},
	)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error) {
	return r.updateOne(ctx,
		bson.D{{Key: "_id", Value: userID}},
		bson.D{{Key: "$set", Value: profileSet(upd, r.now().UTC())}},
	)
}

func (r *UserRepo) SetProfilePic(ctx context.Context, userID string, url string) (domain.User, error) {
	return r.updateOne(ctx,
		bson.D{{Key: "_id", Value: userID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "profilePic", Value: url},
			{Key: "updatedAt", Value: r.now().UTC()},
		}}},
	)
}

func (r *UserRepo) SetBlocked(ctx context.Context, userID string, blocked bool) (domain.User, error) {
	return r.updateOne(ctx,
		bson.D{{Key: "_id", Value: userID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "blocked", Value: blocked},
			{Key: "updatedAt", Value: r.now().UTC()},
		}}},
	)
}

func (r *UserRepo) SetRoleByEmail(ctx context.Context, email string, role string) (domain.User, error) {
	return r.updateOne(ctx,
		bson.D{{Key: "email", Value: email}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "role", Value: role},
			{Key: "updatedAt", Value: r.now().UTC()},
		}}},
	)
}

func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: userID}})
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{{Key: "role", Value: role}}, opts)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}

	out := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *UserRepo) CountByRole(ctx context.Context, role string) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "role", Value: role}})
	if err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	return int(n), nil
}
