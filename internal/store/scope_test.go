package store

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestScopedFilterStampsTenantID(t *testing.T) {
	tenantID := primitive.NewObjectID()

	filter := scopedFilter(tenantID, bson.M{"slug": "gold-ring"})
	if filter["tenantId"] != tenantID {
		t.Fatalf("expected tenantId %v, got %v", tenantID, filter["tenantId"])
	}
	if filter["slug"] != "gold-ring" {
		t.Fatalf("expected original filter fields to survive, got %v", filter)
	}
}

func TestScopedFilterNilFilter(t *testing.T) {
	tenantID := primitive.NewObjectID()

	filter := scopedFilter(tenantID, nil)
	if len(filter) != 1 || filter["tenantId"] != tenantID {
		t.Fatalf("expected bare tenant filter, got %v", filter)
	}
}

func TestScopedFilterCannotBeOverridden(t *testing.T) {
	tenantID := primitive.NewObjectID()
	other := primitive.NewObjectID()

	filter := scopedFilter(tenantID, bson.M{"tenantId": other})
	if filter["tenantId"] != tenantID {
		t.Fatalf("caller-supplied tenantId must lose to the scope, got %v", filter["tenantId"])
	}
}

func TestScopedFilterDoesNotMutateInput(t *testing.T) {
	tenantID := primitive.NewObjectID()
	in := bson.M{"status": "pending"}

	_ = scopedFilter(tenantID, in)
	if _, ok := in["tenantId"]; ok {
		t.Fatal("input filter must not be mutated")
	}
}

func TestStampDocumentSetsTenantID(t *testing.T) {
	tenantID := primitive.NewObjectID()
	doc := struct {
		ID    primitive.ObjectID `bson:"_id,omitempty"`
		Title string             `bson:"title"`
		Price float64            `bson:"price"`
	}{Title: "Gold Ring", Price: 1200}

	stamped, err := stampDocument(tenantID, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stamped["tenantId"] != tenantID {
		t.Fatalf("expected tenantId %v, got %v", tenantID, stamped["tenantId"])
	}
	if stamped["title"] != "Gold Ring" || stamped["price"] != 1200.0 {
		t.Fatalf("expected document fields to survive, got %v", stamped)
	}
	if _, ok := stamped["_id"]; ok {
		t.Fatalf("zero _id should stay omitted so the driver assigns one, got %v", stamped)
	}
}

func TestStampDocumentOverridesForeignTenant(t *testing.T) {
	tenantID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	doc := struct {
		TenantID primitive.ObjectID `bson:"tenantId"`
		Name     string             `bson:"name"`
	}{TenantID: other, Name: "intruder"}

	stamped, err := stampDocument(tenantID, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stamped["tenantId"] != tenantID {
		t.Fatalf("document-supplied tenantId must lose to the scope, got %v", stamped["tenantId"])
	}
}

func TestScopedPipelinePrependsMatch(t *testing.T) {
	tenantID := primitive.NewObjectID()
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: "pending"}}}},
	}

	scoped := scopedPipeline(tenantID, pipeline)
	if len(scoped) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(scoped))
	}

	first := scoped[0]
	if first[0].Key != "$match" {
		t.Fatalf("expected first stage to be $match, got %s", first[0].Key)
	}
	match, ok := first[0].Value.(bson.D)
	if !ok || match[0].Key != "tenantId" || match[0].Value != tenantID {
		t.Fatalf("expected tenant match stage, got %v", first[0].Value)
	}
}
