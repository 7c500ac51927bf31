package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/baechuer/course-feedback/internal/domain"
)

type FeedbackRepo struct {
	coll *mongo.Collection
}

func NewFeedbackRepo(db *mongo.Database) *FeedbackRepo {
	return &FeedbackRepo{coll: db.Collection(feedbacksCollection)}
}

func (r *FeedbackRepo) Create(ctx context.Context, f domain.Feedback) (domain.Feedback, error) {
	if _, err := r.coll.InsertOne(ctx, feedbackToDoc(f)); err != nil {
		return domain.Feedback{}, domain.ErrDBUnavailable(err)
	}
	return f, nil
}

func (r *FeedbackRepo) GetByID(ctx context.Context, id string) (domain.Feedback, error) {
	var d feedbackDoc
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Feedback{}, domain.ErrFeedbackNotFound()
		}
		return domain.Feedback{}, domain.ErrDBUnavailable(err)
	}
	return d.toDomain(), nil
}

func (r *FeedbackRepo) Update(ctx context.Context, f domain.Feedback) (domain.Feedback, error) {
	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: f.ID}}, feedbackToDoc(f))
	if err != nil {
		return domain.Feedback{}, domain.ErrDBUnavailable(err)
	}
	if res.MatchedCount == 0 {
		return domain.Feedback{}, domain.ErrFeedbackNotFound()
	}
	return f, nil
}

func (r *FeedbackRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrFeedbackNotFound()
	}
	return nil
}

// List returns matching feedback, newest first.
func (r *FeedbackRepo) List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, feedbackFilterDoc(filter), opts)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	var docs []feedbackDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}

	out := make([]domain.Feedback, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *FeedbackRepo) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	return int(n), nil
}

func (r *FeedbackRepo) Trends(ctx context.Context) ([]domain.CourseTrend, error) {
	cur, err := r.coll.Aggregate(ctx, trendsPipeline())
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	var docs []trendDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}

	out := make([]domain.CourseTrend, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.CourseTrend(d))
	}
	return out, nil
}
