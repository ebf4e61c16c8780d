package mongostore

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ViacheslavGIT/MegaMart/internal/models"
	"github.com/ViacheslavGIT/MegaMart/internal/store"
)

type Products struct {
	collection *mongo.Collection
}

func NewProducts(db *mongo.Database) *Products {
	return &Products{collection: db.Collection(store.ProductsCollection)}
}

// filterQuery builds a case-insensitive substring match. Input is quoted,
// so it is never interpreted as a pattern.
func filterQuery(f models.ProductFilter) bson.M {
	query := bson.M{}
	if f.Category != "" {
		query["category"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Category), Options: "i"}
	}
	if f.Brand != "" {
		query["brand"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Brand), Options: "i"}
	}
	return query
}

// pageOptions leaves skip or limit unset when zero, so limit 0 means all.
func pageOptions(skip, limit int64) *options.FindOptions {
	findOptions := options.Find()
	if skip > 0 {
		findOptions.SetSkip(skip)
	}
	if limit > 0 {
		findOptions.SetLimit(limit)
	}
	return findOptions
}

func (s *Products) List(ctx context.Context, f models.ProductFilter, skip, limit int64) ([]models.Product, int64, error) {
	query := filterQuery(f)
	findOptions := pageOptions(skip, limit)

	total, err := s.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	cur, err := s.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}
	return products, total, nil
}

func (s *Products) Count(ctx context.Context) (int64, error) {
	n, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (s *Products) At(ctx context.Context, offset int64) (*models.Product, error) {
	var p models.Product
	err := s.collection.FindOne(ctx, bson.M{}, atOptions(offset)).Decode(&p)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// atOptions skips in natural order, the same order List uses.
func atOptions(offset int64) *options.FindOneOptions {
	return options.FindOne().SetSkip(offset)
}

func (s *Products) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Products) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	cur, err := s.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find products by id: %w", err)
	}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (s *Products) Create(ctx context.Context, p *models.Product) error {
	res, err := s.collection.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (s *Products) Update(ctx context.Context, p *models.Product) error {
	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"brand":       p.Brand,
		"category":    p.Category,
		"price":       p.Price,
		"off":         p.Off,
		"img":         p.Img,
		"description": p.Description,
	}}
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Products) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ReplaceAll is not atomic: a failed insert leaves the collection empty
// or partially filled.
func (s *Products) ReplaceAll(ctx context.Context, products []models.Product) error {
	if _, err := s.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}
	if len(products) == 0 {
		return nil
	}
	docs := make([]any, len(products))
	for i := range products {
		products[i].ID = primitive.NewObjectID()
		docs[i] = products[i]
	}
	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert products: %w", err)
	}
	return nil
}

func (s *Products) Facets(ctx context.Context) (models.Facets, error) {
	categories, err := s.distinct(ctx, "category")
	if err != nil {
		return models.Facets{}, err
	}
	brands, err := s.distinct(ctx, "brand")
	if err != nil {
		return models.Facets{}, err
	}
	return models.Facets{Categories: categories, Brands: brands}, nil
}

func (s *Products) distinct(ctx context.Context, field string) ([]string, error) {
	values, err := s.collection.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if str, ok := v.(string); ok && str != "" {
			out = append(out, str)
		}
	}
	sort.Strings(out)
	return out, nil
}
