package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/baechuer/course-feedback/internal/domain"
)

type CourseRepo struct {
	coll *mongo.Collection
}

func NewCourseRepo(db *mongo.Database) *CourseRepo {
	return &CourseRepo{coll: db.Collection(coursesCollection)}
}

func (r *CourseRepo) findOne(ctx context.Context, filter bson.D) (domain.Course, error) {
	var d courseDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Course{}, domain.ErrCourseNotFound()
		}
		return domain.Course{}, domain.ErrDBUnavailable(err)
	}
	return d.toDomain(), nil
}

func (r *CourseRepo) List(ctx context.Context) ([]domain.Course, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	var docs []courseDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}

	out := make([]domain.Course, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *CourseRepo) GetByID(ctx context.Context, id string) (domain.Course, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *CourseRepo) GetByName(ctx context.Context, name string) (domain.Course, error) {
	return r.findOne(ctx, bson.D{{Key: "name", Value: name}})
}

func (r *CourseRepo) Create(ctx context.Context, c domain.Course) (domain.Course, error) {
	doc := courseDoc{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Course{}, domain.ErrCourseAlreadyExists()
		}
		return domain.Course{}, domain.ErrDBUnavailable(err)
	}
	return c, nil
}

func (r *CourseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCourseNotFound()
	}
	return nil
}
