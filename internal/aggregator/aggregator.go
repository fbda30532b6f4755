package aggregator

import (
	"sync"

	"jobprospect/pkg/models"
)

// Aggregator collects the records produced by a search run. Job offers are
// appended as-is; companies are deduplicated on their unique key, where a
// later record for the same key replaces the earlier one in place so
// insertion order is preserved.
//
// Writes come from the single search worker; reads come from API handlers,
// hence the lock.
type Aggregator struct {
	mu           sync.RWMutex
	jobOffers    []models.JobOffer
	companies    []models.Company
	companyIndex map[string]int // unique key -> position in companies
}

func New() *Aggregator {
	return &Aggregator{
		companyIndex: make(map[string]int),
	}
}

func (a *Aggregator) AddJobOffer(offer models.JobOffer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.jobOffers = append(a.jobOffers, offer)
}

func (a *Aggregator) AddJobOffers(offers []models.JobOffer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.jobOffers = append(a.jobOffers, offers...)
}

// AddCompany inserts or replaces a company record. It reports whether the
// record was new rather than a replacement.
func (a *Aggregator) AddCompany(company models.Company) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addCompanyLocked(company)
}

func (a *Aggregator) AddCompanies(companies []models.Company) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	added := 0
	for _, company := range companies {
		if a.addCompanyLocked(company) {
			added++
		}
	}
	return added
}

func (a *Aggregator) addCompanyLocked(company models.Company) bool {
	key := company.UniqueKey()
	if pos, ok := a.companyIndex[key]; ok {
		a.companies[pos] = company
		return false
	}
	a.companyIndex[key] = len(a.companies)
	a.companies = append(a.companies, company)
	return true
}

// JobOffers returns a copy of the collected offers in insertion order.
func (a *Aggregator) JobOffers() []models.JobOffer {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]models.JobOffer, len(a.jobOffers))
	copy(out, a.jobOffers)
	return out
}

// Companies returns a copy of the deduplicated companies in insertion order.
func (a *Aggregator) Companies() []models.Company {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]models.Company, len(a.companies))
	copy(out, a.companies)
	return out
}

func (a *Aggregator) Counts() (jobOffers, companies int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.jobOffers), len(a.companies)
}

// Clear drops all collected records. Called when a new search starts and on
// explicit reset.
func (a *Aggregator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.jobOffers = nil
	a.companies = nil
	a.companyIndex = make(map[string]int)
}
