package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JonMunkholm/BloodBank/internal/core"
)

// AppendRecord inserts rec. With a stock check the read and insert run in
// one transaction that also bumps a guard document keyed by
// (organisation, blood group); concurrent withdrawals on the same key
// write-conflict and the driver retries them against fresh totals.
func (s *Store) AppendRecord(ctx context.Context, rec core.InventoryRecord, check *core.StockCheck) error {
	if check == nil {
		if _, err := s.records.InsertOne(ctx, toRecordDoc(rec)); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
		return nil
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		guardID := check.Organisation + ":" + string(check.BloodGroup)
		_, err := s.guards.UpdateOne(sc,
			bson.D{{Key: "_id", Value: guardID}},
			bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: 1}}}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return nil, fmt.Errorf("bump stock guard: %w", err)
		}

		scope := core.ForOrganisation(check.Organisation)
		in, err := s.sum(sc, scope, check.BloodGroup, core.DirectionIn)
		if err != nil {
			return nil, err
		}
		out, err := s.sum(sc, scope, check.BloodGroup, core.DirectionOut)
		if err != nil {
			return nil, err
		}
		if available := in - out; check.Quantity > available {
			return nil, &core.InsufficientStockError{
				BloodGroup: check.BloodGroup,
				Available:  available,
				Requested:  check.Quantity,
			}
		}

		if _, err := s.records.InsertOne(sc, toRecordDoc(rec)); err != nil {
			return nil, fmt.Errorf("insert record: %w", err)
		}
		return nil, nil
	})
	return err
}

// SumQuantity totals matching records.
func (s *Store) SumQuantity(ctx context.Context, q core.SumQuery) (int64, error) {
	return s.sum(ctx, q.Scope, q.BloodGroup, q.Direction)
}

func (s *Store) sum(ctx context.Context, scope core.Scope, group core.BloodGroup, dir core.Direction) (int64, error) {
	match := bson.D{
		{Key: "bloodGroup", Value: string(group)},
		{Key: "inventoryType", Value: string(dir)},
	}
	if !scope.IsGlobal() {
		match = append(match, bson.E{Key: "organisation", Value: scope.Organisation})
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
		}}},
	}

	cur, err := s.records.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate %s %s: %w", group, dir, err)
	}
	var result []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &result); err != nil {
		return 0, fmt.Errorf("decode %s %s total: %w", group, dir, err)
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}

// FindRecords returns matching records newest first.
func (s *Store) FindRecords(ctx context.Context, f core.RecordFilter, limit int) ([]core.InventoryRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.records.Find(ctx, filterDoc(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}
	var docs []recordDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	recs := make([]core.InventoryRecord, 0, len(docs))
	for _, d := range docs {
		recs = append(recs, d.record())
	}
	return recs, nil
}

// DistinctRefs returns distinct values of field among matching records.
// Records without the field are skipped by the server.
func (s *Store) DistinctRefs(ctx context.Context, field core.RefField, f core.RecordFilter) ([]string, error) {
	switch field {
	case core.RefOrganisation, core.RefDonor, core.RefHospital:
	default:
		return nil, fmt.Errorf("unknown reference field %q", field)
	}

	values, err := s.records.Distinct(ctx, string(field), filterDoc(f))
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
