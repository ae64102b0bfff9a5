package repo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/stirlingv/honey-biz/internal/entities"
	"github.com/stirlingv/honey-biz/pkg/trm"
)

func (r *postgresRepo) insert(ctx context.Context, q sq.InsertBuilder) (inserted, error) {
	query, args := q.Suffix("RETURNING id, created_at").MustSql()

	var row inserted
	if err := trm.From(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		return inserted{}, err
	}
	return row, nil
}

func (r *postgresRepo) CreateNucRequest(ctx context.Context, req entities.NucRequest) (entities.NucRequest, error) {
	q := r.qb.Insert("nuc_requests").
		Columns(append(customerColumns(),
			"quantity", "experience_level", "preferred_pickup_date", "notes", "status",
		)...).
		Values(append(customerValues(req.Customer),
			req.Quantity, req.ExperienceLevel, nullTime(req.PreferredPickupDate), req.Notes, req.Status,
		)...)

	row, err := r.insert(ctx, q)
	if err != nil {
		return entities.NucRequest{}, fmt.Errorf("failed to insert nuc request: %w", err)
	}
	req.ID, req.CreatedAt = row.ID, row.CreatedAt
	return req, nil
}

func (r *postgresRepo) CreatePollinationRequest(ctx context.Context, req entities.PollinationRequest) (entities.PollinationRequest, error) {
	q := r.qb.Insert("pollination_requests").
		Columns(append(customerColumns(),
			"crop_type", "acreage", "num_hives_requested", "preferred_start_date", "duration_weeks", "notes", "status",
		)...).
		Values(append(customerValues(req.Customer),
			req.CropType, req.Acreage, nullInt32(req.HivesRequested), req.PreferredStartDate,
			req.DurationWeeks, req.Notes, req.Status,
		)...)

	row, err := r.insert(ctx, q)
	if err != nil {
		return entities.PollinationRequest{}, fmt.Errorf("failed to insert pollination request: %w", err)
	}
	req.ID, req.CreatedAt = row.ID, row.CreatedAt
	return req, nil
}

func (r *postgresRepo) CreateBeeRemovalRequest(ctx context.Context, req entities.BeeRemovalRequest) (entities.BeeRemovalRequest, error) {
	q := r.qb.Insert("bee_removal_requests").
		Columns(append(customerColumns(),
			"urgency", "property_type", "bee_location", "how_long_present", "estimated_size",
			"height_from_ground", "has_been_sprayed", "can_send_photo", "notes", "status",
		)...).
		Values(append(customerValues(req.Customer),
			req.Urgency, req.PropertyType, req.BeeLocation, req.HowLongPresent, req.EstimatedSize,
			req.HeightFromGround, req.HasBeenSprayed, req.CanSendPhoto, req.Notes, req.Status,
		)...)

	row, err := r.insert(ctx, q)
	if err != nil {
		return entities.BeeRemovalRequest{}, fmt.Errorf("failed to insert bee removal request: %w", err)
	}
	req.ID, req.CreatedAt = row.ID, row.CreatedAt
	return req, nil
}

func (r *postgresRepo) CreateCallbackRequest(ctx context.Context, req entities.CallbackRequest) (entities.CallbackRequest, error) {
	q := r.qb.Insert("callback_requests").
		Columns("name", "phone", "email", "interest", "best_time", "message", "status").
		Values(req.Name, req.Phone, req.Email, req.Interest, req.BestTime, req.Message, req.Status)

	row, err := r.insert(ctx, q)
	if err != nil {
		return entities.CallbackRequest{}, fmt.Errorf("failed to insert callback request: %w", err)
	}
	req.ID, req.CreatedAt = row.ID, row.CreatedAt
	return req, nil
}
