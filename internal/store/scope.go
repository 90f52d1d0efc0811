package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Scope binds a database handle to one resolved tenant. It is built
// once per request by the tenant middleware; handlers reach collections
// only through it, so no call site can forget the tenant filter.
type Scope struct {
	db       *mongo.Database
	tenantID primitive.ObjectID
}

func ForTenant(db *mongo.Database, tenantID primitive.ObjectID) *Scope {
	return &Scope{db: db, tenantID: tenantID}
}

func (s *Scope) TenantID() primitive.ObjectID {
	return s.tenantID
}

// Client exposes the underlying client for session transactions.
func (s *Scope) Client() *mongo.Client {
	return s.db.Client()
}

// Tenants returns the unscoped tenants collection. Tenant documents are
// the one entity that carries no tenantId.
func (s *Scope) Tenants() *mongo.Collection {
	return s.db.Collection("tenants")
}

func (s *Scope) Users() *Collection     { return s.collection("users") }
func (s *Scope) Products() *Collection  { return s.collection("products") }
func (s *Scope) Inventory() *Collection { return s.collection("inventory") }
func (s *Scope) Carts() *Collection     { return s.collection("carts") }
func (s *Scope) Orders() *Collection    { return s.collection("orders") }
func (s *Scope) Leads() *Collection     { return s.collection("leads") }
func (s *Scope) Configs() *Collection   { return s.collection("store_configs") }

func (s *Scope) collection(name string) *Collection {
	return &Collection{coll: s.db.Collection(name), tenantID: s.tenantID}
}

// Collection wraps a mongo collection so that every filter, every
// aggregation pipeline and every inserted document is stamped with the
// scope's tenant id.
type Collection struct {
	coll     *mongo.Collection
	tenantID primitive.ObjectID
}

func scopedFilter(tenantID primitive.ObjectID, filter bson.M) bson.M {
	out := bson.M{"tenantId": tenantID}
	for k, v := range filter {
		if k == "tenantId" {
			continue
		}
		out[k] = v
	}
	return out
}

// stampDocument round-trips the document through bson and overwrites
// tenantId with the scope's, so an insert can neither omit the tenant
// nor claim a different one.
func stampDocument(tenantID primitive.ObjectID, doc interface{}) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	out["tenantId"] = tenantID
	return out, nil
}

func scopedPipeline(tenantID primitive.ObjectID, pipeline mongo.Pipeline) mongo.Pipeline {
	match := bson.D{{Key: "$match", Value: bson.D{{Key: "tenantId", Value: tenantID}}}}
	out := make(mongo.Pipeline, 0, len(pipeline)+1)
	out = append(out, match)
	return append(out, pipeline...)
}

func (c *Collection) FindOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) *mongo.SingleResult {
	return c.coll.FindOne(ctx, scopedFilter(c.tenantID, filter), opts...)
}

func (c *Collection) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	return c.coll.Find(ctx, scopedFilter(c.tenantID, filter), opts...)
}

func (c *Collection) CountDocuments(ctx context.Context, filter bson.M) (int64, error) {
	return c.coll.CountDocuments(ctx, scopedFilter(c.tenantID, filter))
}

func (c *Collection) InsertOne(ctx context.Context, doc interface{}) (*mongo.InsertOneResult, error) {
	stamped, err := stampDocument(c.tenantID, doc)
	if err != nil {
		return nil, err
	}
	return c.coll.InsertOne(ctx, stamped)
}

func (c *Collection) UpdateOne(ctx context.Context, filter bson.M, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.coll.UpdateOne(ctx, scopedFilter(c.tenantID, filter), update, opts...)
}

func (c *Collection) FindOneAndUpdate(ctx context.Context, filter bson.M, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	return c.coll.FindOneAndUpdate(ctx, scopedFilter(c.tenantID, filter), update, opts...)
}

func (c *Collection) DeleteOne(ctx context.Context, filter bson.M) (*mongo.DeleteResult, error) {
	return c.coll.DeleteOne(ctx, scopedFilter(c.tenantID, filter))
}

func (c *Collection) Distinct(ctx context.Context, field string, filter bson.M) ([]interface{}, error) {
	return c.coll.Distinct(ctx, field, scopedFilter(c.tenantID, filter))
}

func (c *Collection) Aggregate(ctx context.Context, pipeline mongo.Pipeline, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	return c.coll.Aggregate(ctx, scopedPipeline(c.tenantID, pipeline), opts...)
}
