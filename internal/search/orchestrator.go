package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"jobprospect/internal/aggregator"
	"jobprospect/internal/background"
	"jobprospect/internal/config"
	"jobprospect/internal/geo"
	"jobprospect/internal/logging"
	"jobprospect/internal/providers"
	"jobprospect/internal/providers/francetravail"
	"jobprospect/internal/providers/pappers"
	"jobprospect/internal/providers/sirene"
	"jobprospect/pkg/models"
	"jobprospect/pkg/utils"
)

// ErrSearchInProgress is returned when a search is started while another
// one is still running. Only one search runs at a time; its results live in
// the shared aggregator and a second run would interleave with them.
var ErrSearchInProgress = errors.New("a search is already in progress")

// Summary is the task result data of a completed search run.
type Summary struct {
	Type      string   `json:"type"`
	JobOffers int      `json:"job_offers"`
	Companies int      `json:"companies"`
	Batches   int      `json:"batches"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Orchestrator coordinates a search run: resolves the requested scope to
// department codes, drives the provider clients batch by batch and feeds
// the aggregator. The run itself executes as a background task; all writes
// to the aggregator happen from that single task goroutine.
type Orchestrator struct {
	cfg        *config.Config
	jobs       *francetravail.Client
	registry   *sirene.Client
	enrichment *pappers.Client
	agg        *aggregator.Aggregator
	tasks      background.TaskManager
	logger     logging.Logger

	mu       sync.Mutex
	activeID string
	progress models.SearchProgress
	warnings []string
}

func NewOrchestrator(
	cfg *config.Config,
	jobs *francetravail.Client,
	registry *sirene.Client,
	enrichment *pappers.Client,
	agg *aggregator.Aggregator,
	tasks background.TaskManager,
) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		jobs:       jobs,
		registry:   registry,
		enrichment: enrichment,
		agg:        agg,
		tasks:      tasks,
		logger:     logging.GetGlobalLogger(),
	}
}

// Start validates the request, clears the previous result set and submits
// the search as a background task. It returns the process ID to poll.
func (o *Orchestrator) Start(ctx context.Context, req models.SearchRequest) (string, error) {
	if err := o.checkProviders(req.Type); err != nil {
		return "", err
	}

	departments, err := o.resolveDepartments(req)
	if err != nil {
		return "", err
	}

	o.mu.Lock()
	if o.activeID != "" {
		o.mu.Unlock()
		return "", ErrSearchInProgress
	}
	processID := utils.GenerateRequestID()
	o.activeID = processID
	o.progress = models.SearchProgress{}
	o.warnings = nil
	o.mu.Unlock()

	o.agg.Clear()

	metadata := map[string]interface{}{
		"type":        req.Type,
		"scope":       req.Scope,
		"departments": len(departments),
	}
	if req.Keywords != "" {
		metadata["keywords"] = req.Keywords
	}

	err = o.tasks.Submit(ctx, processID, metadata, func(taskCtx context.Context) (interface{}, error) {
		defer o.release(processID)
		summary, runErr := o.run(taskCtx, req, departments)
		if runErr != nil {
			// Return an untyped nil so a failed run's Data is not a
			// typed-nil *Summary boxed in a non-nil interface.
			return nil, runErr
		}
		return summary, nil
	})
	if err != nil {
		o.release(processID)
		return "", err
	}

	o.logger.Info("Search started", map[string]interface{}{
		"process_id": processID,
		"type":       req.Type,
		"scope":      req.Scope,
	})
	return processID, nil
}

// Stop requests cooperative cancellation of the search with the given
// process ID. The run observes it between batches.
func (o *Orchestrator) Stop(processID string) error {
	return o.tasks.CancelTask(processID)
}

// Status merges the stored task state with live progress for the running
// search.
func (o *Orchestrator) Status(ctx context.Context, processID string) (*models.SearchStatusResponse, error) {
	result, err := o.tasks.GetTaskResult(ctx, processID)
	if err != nil {
		return nil, err
	}

	resp := &models.SearchStatusResponse{
		ProcessID:   result.ProcessID,
		Status:      models.SearchStatus(result.Status),
		Error:       result.Error,
		CreatedAt:   result.CreatedAt,
		CompletedAt: result.CompletedAt,
		Metadata:    result.Metadata,
	}
	if result.ProcessingTime != nil {
		resp.ProcessingTime = *result.ProcessingTime
	}

	o.mu.Lock()
	if o.activeID == processID {
		progress := o.progress
		resp.Progress = &progress
		resp.Warnings = append([]string(nil), o.warnings...)
	}
	o.mu.Unlock()

	if summary, ok := result.Data.(*Summary); ok {
		resp.Warnings = summary.Warnings
		resp.Progress = &models.SearchProgress{
			BatchesDone:  summary.Batches,
			BatchesTotal: summary.Batches,
			JobOffers:    summary.JobOffers,
			Companies:    summary.Companies,
		}
	}
	return resp, nil
}

// Running reports the process ID of the search currently in flight, if any.
func (o *Orchestrator) Running() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.activeID, o.activeID != ""
}

func (o *Orchestrator) checkProviders(searchType string) error {
	switch searchType {
	case models.SearchTypeJobs, models.SearchTypeCombined:
		if !o.jobs.HasToken() {
			return providers.NewConfigurationError("France Travail access token missing, authenticate first")
		}
	case models.SearchTypeEnrichment:
		if !o.cfg.HasPappersAPIToken() {
			return providers.NewConfigurationError("Pappers API token not configured")
		}
	case models.SearchTypeCompanies:
		// The SIRENE key is optional; an unauthorized registry degrades to
		// zero results with a warning.
	default:
		return fmt.Errorf("unknown search type %q", searchType)
	}
	return nil
}

func (o *Orchestrator) resolveDepartments(req models.SearchRequest) ([]string, error) {
	switch req.Scope {
	case models.ScopeMetropolitan:
		return geo.AllMetropolitanDepartments(), nil
	case models.ScopeFrance:
		return geo.AllDepartments(), nil
	case models.ScopeRegion:
		departments := geo.DepartmentsOf(req.Region)
		if len(departments) == 0 {
			return nil, providers.NewConfigurationError(fmt.Sprintf("unknown region %q", req.Region))
		}
		return departments, nil
	case models.ScopeDepartment:
		return []string{req.Department}, nil
	default:
		return nil, fmt.Errorf("unknown scope %q", req.Scope)
	}
}

func (o *Orchestrator) run(ctx context.Context, req models.SearchRequest, departments []string) (*Summary, error) {
	var err error
	switch req.Type {
	case models.SearchTypeJobs:
		err = o.runJobs(ctx, req, departments)
	case models.SearchTypeCompanies:
		err = o.runCompanies(ctx, departments)
	case models.SearchTypeCombined:
		if err = o.runJobs(ctx, req, departments); err == nil {
			err = o.runCompanies(ctx, departments)
		}
	case models.SearchTypeEnrichment:
		err = o.runEnrichment(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	jobOffers, companies := o.agg.Counts()
	summary := &Summary{
		Type:      req.Type,
		JobOffers: jobOffers,
		Companies: companies,
	}
	o.mu.Lock()
	summary.Batches = o.progress.BatchesTotal
	summary.Warnings = append([]string(nil), o.warnings...)
	o.mu.Unlock()

	o.logger.Info("Search completed", map[string]interface{}{
		"type":       req.Type,
		"job_offers": jobOffers,
		"companies":  companies,
		"warnings":   len(summary.Warnings),
	})
	return summary, nil
}

// runJobs queries job postings one department group at a time. A failing
// group becomes a warning; cancellation is honored between groups.
func (o *Orchestrator) runJobs(ctx context.Context, req models.SearchRequest, departments []string) error {
	keywords := req.Keywords
	if keywords == "" {
		keywords = o.cfg.Search.DefaultKeywords
	}

	groups := o.jobs.DepartmentGroups(departments)
	o.addBatches(len(groups))

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		offers, err := o.jobs.SearchGroup(ctx, keywords, group)
		if err != nil {
			// A request aborted by cancellation is not a provider failure.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			o.warn(fmt.Sprintf("offres (dép. %s): %v", strings.Join(group, ","), err))
		} else {
			o.agg.AddJobOffers(offers)
		}
		o.batchDone()
	}
	return nil
}

// runCompanies queries the SIRENE registry one activity code at a time.
func (o *Orchestrator) runCompanies(ctx context.Context, departments []string) error {
	nafCodes := o.cfg.Sirene.NAFCodes
	o.addBatches(len(nafCodes))

	for _, nafCode := range nafCodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		companies, err := o.registry.SearchByNAF(ctx, nafCode, departments)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			o.warn(fmt.Sprintf("entreprises NAF %s: %v", nafCode, err))
		} else {
			o.agg.AddCompanies(companies)
		}
		o.batchDone()
	}
	return nil
}

// runEnrichment performs a single filtered Pappers search. There is no
// batching to isolate, so a provider error fails the run.
func (o *Orchestrator) runEnrichment(ctx context.Context, req models.SearchRequest) error {
	o.addBatches(1)

	companies, err := o.enrichment.SearchCompanies(ctx, o.criteriaFromRequest(req))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	o.agg.AddCompanies(companies)
	o.batchDone()
	return nil
}

func (o *Orchestrator) criteriaFromRequest(req models.SearchRequest) models.EnrichmentCriteria {
	criteria := models.NewEnrichmentCriteria()
	criteria.Query = req.Keywords
	criteria.NAFCode = req.NAFCode
	criteria.RevenueMin = req.RevenueMin
	criteria.RevenueMax = req.RevenueMax
	criteria.NetResultMin = req.NetResultMin
	criteria.CreatedAfter = req.CreatedAfter
	criteria.CreatedBefore = req.CreatedBefore
	criteria.HeadcountMin = req.HeadcountMin
	criteria.HeadcountMax = req.HeadcountMax
	criteria.ExcludeInactive = !req.IncludeInactive
	criteria.ExcludeSoleProprietors = !req.IncludeSoleProprietors

	switch req.Scope {
	case models.ScopeRegion:
		criteria.Region = req.Region
	case models.ScopeDepartment:
		criteria.Department = req.Department
	}

	if req.Page > 0 {
		criteria.Page = req.Page
	}
	if req.PageSize > 0 {
		criteria.PageSize = req.PageSize
	}
	if req.SortBy != "" {
		criteria.SortBy = req.SortBy
	}
	return criteria
}

func (o *Orchestrator) release(processID string) {
	o.mu.Lock()
	if o.activeID == processID {
		o.activeID = ""
	}
	o.mu.Unlock()
}

func (o *Orchestrator) warn(message string) {
	o.mu.Lock()
	o.warnings = append(o.warnings, message)
	o.mu.Unlock()
	o.logger.Warn("Search batch failed", map[string]interface{}{
		"detail": message,
	})
}

func (o *Orchestrator) addBatches(n int) {
	o.mu.Lock()
	o.progress.BatchesTotal += n
	o.mu.Unlock()
}

func (o *Orchestrator) batchDone() {
	jobOffers, companies := o.agg.Counts()
	o.mu.Lock()
	o.progress.BatchesDone++
	o.progress.JobOffers = jobOffers
	o.progress.Companies = companies
	o.mu.Unlock()
}
