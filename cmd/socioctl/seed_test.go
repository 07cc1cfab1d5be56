package main

import (
	"context"
	"testing"
	"time"

	"github.com/dangerclosesec/socioplus/internal/mocks"
	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/dangerclosesec/socioplus/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSeedOpportunity(t *testing.T) {
	org := &model.User{ID: uuid.New(), Email: "contact@foodbank.org", Role: model.RoleOrganization}
	input := service.CreateOpportunityInput{
		Title:       "Food Distribution Volunteer",
		Description: "Help us distribute food to families in need.",
		Location:    "123 Main St, New York, NY",
		Date:        time.Now().AddDate(0, 0, 7).Format(model.DateLayout),
	}

	setup := func(t *testing.T) (*mocks.MockOpportunityRepositoryIface, *mocks.MockUserRepositoryIface, *service.OpportunityService) {
		ctrl := gomock.NewController(t)
		opps := mocks.NewMockOpportunityRepositoryIface(ctrl)
		users := mocks.NewMockUserRepositoryIface(ctrl)
		apps := mocks.NewMockApplicationRepositoryIface(ctrl)
		return opps, users, service.NewOpportunityService(opps, users, apps, nil, nil)
	}

	t.Run("reuses a posting with the same title", func(t *testing.T) {
		opps, _, svc := setup(t)
		existing := &model.Opportunity{ID: uuid.New(), Title: input.Title, OrgID: org.ID}
		opps.EXPECT().ListByOwner(gomock.Any(), org.ID).Return([]*model.Opportunity{
			{ID: uuid.New(), Title: "Park Cleanup", OrgID: org.ID},
			existing,
		}, nil)

		opp, err := seedOpportunity(context.Background(), svc, org, input)

		require.NoError(t, err)
		assert.Equal(t, existing.ID, opp.ID)
	})

	t.Run("creates the posting on first run", func(t *testing.T) {
		opps, users, svc := setup(t)
		opps.EXPECT().ListByOwner(gomock.Any(), org.ID).Return(nil, nil)
		users.EXPECT().FindByID(gomock.Any(), org.ID).Return(org, nil)
		opps.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, opp *model.Opportunity) error {
			opp.ID = uuid.New()
			return nil
		})

		opp, err := seedOpportunity(context.Background(), svc, org, input)

		require.NoError(t, err)
		assert.Equal(t, input.Title, opp.Title)
		assert.Equal(t, org.ID, opp.OrgID)
	})
}
