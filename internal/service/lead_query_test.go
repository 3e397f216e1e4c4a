package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"intentrelay.app/relay/internal/model"
	"intentrelay.app/relay/internal/service"
	"intentrelay.app/relay/internal/store"
)

var _ = Describe("LeadQueryService", func() {
	var (
		ctx   context.Context
		leads *mockLeadStore
		deals *mockDealStore
		svc   service.LeadQueryService
	)

	BeforeEach(func() {
		ctx = context.Background()
		leads = &mockLeadStore{
			getByIDFn: func(_ context.Context, id int64) (*model.Lead, error) {
				return &model.Lead{ID: id, Status: model.LeadStatusNew}, nil
			},
		}
		deals = &mockDealStore{}
		svc = service.NewLeadQueryService(leads, deals)
	})

	It("returns the lead with its deal", func() {
		deals.getByLeadIDFn = func(_ context.Context, leadID int64) (*model.Deal, error) {
			return &model.Deal{ID: 9, LeadID: leadID, Stage: model.DealStageDemo}, nil
		}

		view, err := svc.Get(ctx, 42)

		Expect(err).NotTo(HaveOccurred())
		Expect(view.Lead.ID).To(Equal(int64(42)))
		Expect(view.Deal.LeadID).To(Equal(int64(42)))
	})

	It("returns the lead alone when no deal was projected", func() {
		view, err := svc.Get(ctx, 42)

		Expect(err).NotTo(HaveOccurred())
		Expect(view.Deal).To(BeNil())
	})

	It("maps a missing lead to ErrLeadNotFound", func() {
		leads.getByIDFn = func(context.Context, int64) (*model.Lead, error) {
			return nil, store.ErrNotFound
		}

		_, err := svc.Get(ctx, 1)
		Expect(err).To(MatchError(service.ErrLeadNotFound))
	})

	It("wraps deal lookup failures", func() {
		deals.getByLeadIDFn = func(context.Context, int64) (*model.Deal, error) {
			return nil, errors.New("timeout")
		}

		_, err := svc.Get(ctx, 1)
		Expect(err).To(MatchError(ContainSubstring("fetching deal")))
	})
})
