package inbound

import (
	"context"
	"fmt"
	"time"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/entity"
	"freshstock/internal/core/id"
	"freshstock/internal/core/tx"
	"freshstock/internal/domain/audit"
	"freshstock/internal/domain/batch"
	"freshstock/internal/domain/catalogs/manager"
	"freshstock/internal/domain/catalogs/product"
	"freshstock/internal/domain/catalogs/section"
	"freshstock/pkg/logger"
	"freshstock/pkg/numerator"
)

// Service provides business logic for inbound orders: receiving batches
// into sections and amending a receipt after the fact.
type Service struct {
	repo      Repository
	batches   batch.Repository
	sections  section.Repository
	managers  manager.Repository
	products  product.Repository
	txm       tx.Manager
	numerator *numerator.Service
	auditor   audit.Recorder
	cache     batch.ReportCache
}

// NewService creates an inbound order service. cache may be nil.
func NewService(
	repo Repository,
	batches batch.Repository,
	sections section.Repository,
	managers manager.Repository,
	products product.Repository,
	txm tx.Manager,
	num *numerator.Service,
	auditor audit.Recorder,
	cache batch.ReportCache,
) *Service {
	return &Service{
		repo:      repo,
		batches:   batches,
		sections:  sections,
		managers:  managers,
		products:  products,
		txm:       txm,
		numerator: num,
		auditor:   auditor,
		cache:     cache,
	}
}

// Create registers a new inbound order. The manager must supervise the
// target section, the section must have room for the new batches and
// every received product must exist and match the section's storage
// category. Each batch starts with its full initial quantity available.
func (s *Service) Create(ctx context.Context, order *InboundOrder, managerID id.ID) error {
	if err := order.Validate(ctx); err != nil {
		return err
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		sec, err := s.authorize(ctx, order.SectionID, managerID)
		if err != nil {
			return err
		}

		if err := s.checkProducts(ctx, sec, order.Batches); err != nil {
			return err
		}

		held, err := s.batches.CountBySection(ctx, order.SectionID)
		if err != nil {
			return err
		}
		if held+len(order.Batches) > sec.MaxBatches {
			return apperror.NewValidation("section has no room for the received batches").
				WithDetail("sectionId", sec.ID.String()).
				WithDetail("held", held).
				WithDetail("received", len(order.Batches)).
				WithDetail("maxBatches", sec.MaxBatches)
		}

		if order.Number == "" {
			number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("IB"),
				&numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
			if err != nil {
				return fmt.Errorf("generate number: %w", err)
			}
			order.Number = number
		}

		if err := s.repo.Create(ctx, order); err != nil {
			return fmt.Errorf("create inbound order: %w", err)
		}

		for _, b := range order.Batches {
			if err := s.receiveBatch(ctx, order, b); err != nil {
				return err
			}
		}

		return s.auditor.Record(ctx, audit.Entry{
			Entity:   "inbound_order",
			EntityID: order.ID,
			Action:   audit.ActionCreate,
			ActorID:  managerID,
			Payload:  order,
		})
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	logger.Info(ctx, "inbound order created",
		"id", order.ID, "number", order.Number,
		"section_id", order.SectionID, "batches", len(order.Batches))
	return nil
}

// Update amends an existing inbound order. Batches carrying a known id
// are corrected in place: units already sold from the batch are
// preserved, so the new current quantity is the new initial quantity
// minus what was sold. Batches without an id are received as new stock,
// counted against the section capacity.
func (s *Service) Update(ctx context.Context, order *InboundOrder, managerID id.ID) error {
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.repo.GetByID(ctx, order.ID)
		if err != nil {
			return err
		}

		// The section cannot be changed by an amendment.
		order.SectionID = stored.SectionID
		if err := order.Validate(ctx); err != nil {
			return err
		}

		sec, err := s.authorize(ctx, stored.SectionID, managerID)
		if err != nil {
			return err
		}

		if err := s.checkProducts(ctx, sec, order.Batches); err != nil {
			return err
		}

		var received int
		for _, b := range order.Batches {
			if id.IsNil(b.ID) {
				received++
			}
		}
		if received > 0 {
			held, err := s.batches.CountBySection(ctx, stored.SectionID)
			if err != nil {
				return err
			}
			if held+received > sec.MaxBatches {
				return apperror.NewValidation("section has no room for the received batches").
					WithDetail("sectionId", sec.ID.String()).
					WithDetail("held", held).
					WithDetail("received", received).
					WithDetail("maxBatches", sec.MaxBatches)
			}
		}

		for _, b := range order.Batches {
			if id.IsNil(b.ID) {
				if err := s.receiveBatch(ctx, stored, b); err != nil {
					return err
				}
				continue
			}
			if err := s.amendBatch(ctx, stored, b); err != nil {
				return err
			}
		}

		stored.Date = order.Date
		if err := s.repo.Update(ctx, stored); err != nil {
			return fmt.Errorf("update inbound order: %w", err)
		}

		order.Number = stored.Number
		return s.auditor.Record(ctx, audit.Entry{
			Entity:   "inbound_order",
			EntityID: stored.ID,
			Action:   audit.ActionUpdate,
			ActorID:  managerID,
			Payload:  order,
		})
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	logger.Info(ctx, "inbound order updated", "id", order.ID, "batches", len(order.Batches))
	return nil
}

// GetByID returns the order with its batches.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*InboundOrder, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Batches, err = s.repo.ListBatches(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) authorize(ctx context.Context, sectionID, managerID id.ID) (*section.Section, error) {
	if _, err := s.managers.GetByID(ctx, managerID); err != nil {
		return nil, err
	}

	sec, err := s.sections.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if !sec.ManagedBy(managerID) {
		return nil, apperror.NewUnauthorized(managerID.String(), "manager does not supervise this section")
	}
	return sec, nil
}

func (s *Service) checkProducts(ctx context.Context, sec *section.Section, batches []*batch.Batch) error {
	for _, b := range batches {
		p, err := s.products.GetByID(ctx, b.ProductID)
		if err != nil {
			return err
		}
		if p.Category != sec.Category {
			return apperror.NewValidation("product category does not match the section").
				WithDetail("productId", p.ID.String()).
				WithDetail("productCategory", string(p.Category)).
				WithDetail("sectionCategory", string(sec.Category))
		}
	}
	return nil
}

func (s *Service) receiveBatch(ctx context.Context, order *InboundOrder, b *batch.Batch) error {
	if id.IsNil(b.ID) {
		b.BaseEntity = entity.NewBaseEntity()
	}
	b.InboundOrderID = order.ID
	b.CurrentQuantity = b.InitialQuantity

	if b.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("BT"),
			&numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
		if err != nil {
			return fmt.Errorf("generate batch number: %w", err)
		}
		b.Number = number
	}

	if err := s.batches.Create(ctx, b); err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// amendBatch rewrites a batch from the corrected receipt while keeping
// the units already sold out of it.
func (s *Service) amendBatch(ctx context.Context, order *InboundOrder, b *batch.Batch) error {
	stored, err := s.batches.GetForUpdate(ctx, b.ID)
	if err != nil {
		return err
	}
	if stored.InboundOrderID != order.ID {
		return apperror.NewValidation("batch belongs to a different inbound order").
			WithDetail("batchId", b.ID.String())
	}

	sold := stored.SoldQuantity()
	if b.InitialQuantity-sold < 0 {
		return apperror.NewBatchQuantity(b.ID.String(), "initial quantity cannot drop below units already sold").
			WithDetail("initial", b.InitialQuantity).
			WithDetail("sold", sold)
	}

	stored.ProductID = b.ProductID
	stored.CurrentTemperature = b.CurrentTemperature
	stored.MinimumTemperature = b.MinimumTemperature
	stored.InitialQuantity = b.InitialQuantity
	stored.CurrentQuantity = b.InitialQuantity - sold
	stored.ManufacturingDate = b.ManufacturingDate
	stored.ManufacturingTime = b.ManufacturingTime
	stored.DueDate = b.DueDate
	stored.UnitPrice = b.UnitPrice

	if err := s.batches.Update(ctx, stored); err != nil {
		return fmt.Errorf("update batch: %w", err)
	}

	*b = *stored
	return nil
}
