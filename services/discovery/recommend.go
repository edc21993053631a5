package discovery

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mealseek/models"
	"mealseek/utils"
)

// GetRecommendations asks the recommender agent for candidates, then
// enriches each one with place details. Enrichment is strictly sequential:
// the next details fetch is not issued until the previous one resolved.
// That keeps progress reporting simple and avoids bursting the upstream.
func (s *DefaultFlowService) GetRecommendations(ctx context.Context, sessionID string) (*models.DiscoverySession, error) {
	if err := s.begin(sessionID); err != nil {
		return nil, err
	}
	defer s.end(sessionID)

	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Phase != models.PhaseChatting {
		return nil, ErrWrongPhase
	}

	session.Phase = models.PhaseRecommending
	session.Error = ""
	updateStep(session, models.StepInformationAgent, func(step *models.FlowStep) {
		if step.Status != models.StepCompleted {
			step.Status = models.StepCompleted
			step.Action = "Chat finished"
			step.Details = "Proceeding to recommendations."
		}
	})
	session.FlowSteps = append(session.FlowSteps,
		models.FlowStep{
			ID:        models.StepRecommenderAgent,
			Actor:     "Recommender Agent",
			Action:    "Processing chat context...",
			Status:    models.StepInProgress,
			Timestamp: stepTimestamp(),
		},
		models.FlowStep{
			ID:        models.StepPlacesAPI,
			Actor:     "Google Maps API",
			Action:    "Waiting for recommendations...",
			Status:    models.StepPending,
			Timestamp: stepTimestamp(),
		},
	)
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}

	candidates, err := s.Agent.PromptResponse(ctx, sessionID)
	if err != nil {
		utils.GetLogger().Error("Recommendation fetch failed",
			zap.String("sessionID", sessionID), zap.Error(err))
		s.failSession(ctx, session, "Recommendation failed", fmt.Sprintf("Failed to get recommendations: %v", err))
		return session, err
	}

	updateStep(session, models.StepRecommenderAgent, func(step *models.FlowStep) {
		step.Status = models.StepCompleted
		step.Details = fmt.Sprintf("Found %d potential restaurants.", len(candidates))
	})

	var enriched []models.Restaurant
	if len(candidates) > 0 {
		updateStep(session, models.StepPlacesAPI, func(step *models.FlowStep) {
			step.Status = models.StepInProgress
			step.Action = "Fetching detailed information..."
			step.Details = fmt.Sprintf("Enhancing data for %d restaurants.", len(candidates))
		})
		session.Enriching = true
		session.Progress = 0
		if err := s.Store.Save(ctx, session); err != nil {
			return nil, err
		}

		enriched = s.enrichAll(ctx, candidates, func(pct int) {
			session.Progress = pct
			if err := s.Store.Save(ctx, session); err != nil {
				utils.GetLogger().Warn("Failed to publish enrichment progress",
					zap.String("sessionID", sessionID), zap.Error(err))
			}
		})

		session.Progress = 100
		session.Enriching = false
		session.Restaurants = enriched
		updateStep(session, models.StepPlacesAPI, func(step *models.FlowStep) {
			step.Status = models.StepCompleted
			step.Action = "Information enrichment complete"
			step.Details = fmt.Sprintf("Enhanced data for %d restaurants.", len(enriched))
		})
	} else {
		updateStep(session, models.StepPlacesAPI, func(step *models.FlowStep) {
			step.Status = models.StepCompleted
			step.Details = "No restaurants found to enrich."
		})
	}

	if len(enriched) > 0 {
		session.Phase = models.PhaseReport
	} else {
		// An empty result is a report, not an error.
		session.Phase = models.PhaseReport
		session.Error = "No restaurants found based on the conversation."
		for i := range session.FlowSteps {
			if session.FlowSteps[i].Status == models.StepPending {
				session.FlowSteps[i].Status = models.StepCompleted
			}
		}
		session.FlowSteps = append(session.FlowSteps, models.FlowStep{
			ID:        models.FlowStepID("system-" + uuid.New().String()),
			Actor:     "System",
			Action:    "Search complete",
			Status:    models.StepCompleted,
			Details:   "No restaurants found.",
			Timestamp: stepTimestamp(),
		})
	}

	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// enrichAll resolves candidates to restaurants one at a time. The progress
// callback fires with floor(i/total*100) BEFORE each fetch, so the reported
// percentage reflects work about to start, and reaches 100 only after the
// caller finishes the loop. Candidates are never dropped: a missing
// place_id, a transport failure or an empty details payload all degrade to
// a default-filled record.
func (s *DefaultFlowService) enrichAll(ctx context.Context, candidates []models.CandidateRestaurant, progress func(pct int)) []models.Restaurant {
	total := len(candidates)
	enriched := make([]models.Restaurant, 0, total)

	for i, candidate := range candidates {
		progress(i * 100 / total)

		if candidate.PlaceID == "" {
			enriched = append(enriched, degradedRestaurant(candidate))
			continue
		}

		details, err := s.Places.Details(ctx, candidate.PlaceID)
		if err != nil {
			utils.GetLogger().Warn("Place enrichment failed, using defaults",
				zap.String("placeID", candidate.PlaceID), zap.Error(err))
			details = nil
		}
		if details == nil {
			enriched = append(enriched, degradedRestaurant(candidate))
			continue
		}
		enriched = append(enriched, mergeDetails(candidate, details))
	}
	return enriched
}

// mergeDetails overlays place details onto a candidate.
func mergeDetails(candidate models.CandidateRestaurant, details *models.PlaceDetails) models.Restaurant {
	name := details.Name
	if name == "" {
		name = candidate.Name
	}
	reviews := details.Reviews
	if len(reviews) > 3 {
		reviews = reviews[:3]
	}
	return models.Restaurant{
		Name:                 name,
		PlaceID:              candidate.PlaceID,
		WhyGoodChoice:        candidate.WhyGoodChoice,
		Rating:               details.Rating,
		UserRatingsTotal:     details.UserRatingsTotal,
		Vicinity:             details.Vicinity,
		FormattedAddress:     details.FormattedAddress,
		FormattedPhoneNumber: details.FormattedPhoneNumber,
		Website:              details.Website,
		OpeningHours:         details.OpeningHours,
		PriceLevel:           details.PriceLevel,
		Photos:               details.Photos,
		Reviews:              reviews,
	}
}

// degradedRestaurant keeps the candidate in the report with default fields.
func degradedRestaurant(candidate models.CandidateRestaurant) models.Restaurant {
	return models.Restaurant{
		Name:             candidate.Name,
		PlaceID:          candidate.PlaceID,
		WhyGoodChoice:    candidate.WhyGoodChoice,
		Rating:           0,
		UserRatingsTotal: 0,
		Vicinity:         models.NoLocationData,
	}
}
