package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PGMA10/rrak-website/internal/models"
	"github.com/PGMA10/rrak-website/internal/repository"
	"github.com/PGMA10/rrak-website/internal/schema"
)

type CampaignService struct {
	repo *repository.CampaignRepository
	loc  *time.Location
}

// NewCampaignService interprets zone-less deadlines in the named IANA zone,
// falling back to UTC when it cannot be loaded.
func NewCampaignService(repo *repository.CampaignRepository, timezone string) *CampaignService {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return &CampaignService{repo: repo, loc: loc}
}

func (s *CampaignService) Current(ctx context.Context) (*models.CampaignSetting, error) {
	return s.repo.GetCurrent(ctx)
}

// SetDeadline accepts either {deadlineDate} or separate {date, time}
// fields, the form the admin date and time pickers submit.
func (s *CampaignService) SetDeadline(ctx context.Context, raw map[string]any) (*models.CampaignSetting, error) {
	in := map[string]any{"deadlineDate": raw["deadlineDate"]}
	if in["deadlineDate"] == nil {
		date, _ := raw["date"].(string)
		clock, _ := raw["time"].(string)
		if date = strings.TrimSpace(date); date != "" {
			if clock = strings.TrimSpace(clock); clock == "" {
				clock = "00:00"
			}
			in["deadlineDate"] = date + "T" + clock
		}
	}

	clean, err := schema.Check(schema.EntityCampaignSettings, in, false)
	if err != nil {
		return nil, err
	}
	deadline, err := schema.ParseDateTime(clean["deadlineDate"].(string), s.loc)
	if err != nil {
		return nil, schema.Errors{"deadlineDate": schema.MsgInvalidDateTime}
	}
	setting, err := s.repo.Upsert(ctx, deadline)
	if err != nil {
		return nil, fmt.Errorf("save campaign deadline: %w", err)
	}
	return setting, nil
}
