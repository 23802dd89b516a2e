package analytics

import (
	"fieldservice-dashboard/internal/constants"
	"fieldservice-dashboard/internal/storage"
	"strings"
)

type Pair struct {
	Engineer          string   `json:"engineer"`
	Customer          string   `json:"customer"`
	SOCount           int      `json:"so_count"`
	AvgResolutionTime *float64 `json:"avg_resolution_time"`
}

type CoverageStats struct {
	AvgCustomersPerEngineer float64 `json:"avg_customers_per_engineer"`
	AvgEngineersPerCustomer float64 `json:"avg_engineers_per_customer"`
	MaxCustomersPerEngineer int     `json:"max_customers_per_engineer"`
	MaxEngineersPerCustomer int     `json:"max_engineers_per_customer"`
}

type RiskCustomer struct {
	Customer string `json:"customer"`
	Engineer string `json:"engineer"`
	SOCount  int    `json:"so_count"`
}

type RiskAnalysis struct {
	SingleEngineerCustomers []RiskCustomer `json:"single_engineer_customers"`
	RiskCount               int            `json:"risk_count"`
}

type EngineerCoverage struct {
	Engineer      string `json:"engineer"`
	CustomerCount int    `json:"customer_count"`
	SOCount       int    `json:"so_count"`
}

type CustomerCoverage struct {
	Customer      string `json:"customer"`
	EngineerCount int    `json:"engineer_count"`
	SOCount       int    `json:"so_count"`
}

type Relationships struct {
	TotalEngineers      int                `json:"total_engineers"`
	TotalCustomers      int                `json:"total_customers"`
	TotalSO             int                `json:"total_so"`
	Matrix              []Pair             `json:"engineer_customer_matrix"`
	TopPairs            []Pair             `json:"top_pairs"`
	CoverageStats       CoverageStats      `json:"coverage_stats"`
	RiskAnalysis        RiskAnalysis       `json:"risk_analysis"`
	TopDiverseEngineers []EngineerCoverage `json:"top_diverse_engineers"`
	TopCoveredCustomers []CustomerCoverage `json:"top_covered_customers"`
}

type pairAcc struct {
	engineer, customer string
	count              int
	resolution         []float64
}

// index - множество с порядком появления.
type index struct {
	order []string
	items map[string]map[string]int
}

func newIndex() *index {
	return &index{order: make([]string, 0), items: make(map[string]map[string]int)}
}

func (x *index) add(key, other string) {
	m, ok := x.items[key]
	if !ok {
		m = make(map[string]int)
		x.items[key] = m
		x.order = append(x.order, key)
	}
	m[other]++
}

func (x *index) total(key string) int {
	n := 0
	for _, c := range x.items[key] {
		n += c
	}
	return n
}

// AnalyzeRelationships строит двудольный граф инженер-клиент по SO.
// SO без инженера или клиента пропускаются.
func AnalyzeRelationships(orders []storage.Record) Relationships {
	pairs := make(map[[2]string]*pairAcc)
	pairOrder := make([][2]string, 0)
	engineers := newIndex()
	customers := newIndex()

	for _, r := range orders {
		eng := FieldText(r, constants.EngineerFields...)
		cust := FieldText(r, constants.CustomerFields...)
		if eng == "" || cust == "" {
			continue
		}

		key := [2]string{eng, cust}
		acc, ok := pairs[key]
		if !ok {
			acc = &pairAcc{engineer: eng, customer: cust}
			pairs[key] = acc
			pairOrder = append(pairOrder, key)
		}
		acc.count++
		if v, ok := ToFloat(r["resolution_time"]); ok {
			acc.resolution = append(acc.resolution, v)
		}

		engineers.add(eng, cust)
		customers.add(cust, eng)
	}

	res := Relationships{
		TotalEngineers:      len(engineers.order),
		TotalCustomers:      len(customers.order),
		Matrix:              make([]Pair, 0, len(pairOrder)),
		TopPairs:            make([]Pair, 0),
		RiskAnalysis:        RiskAnalysis{SingleEngineerCustomers: make([]RiskCustomer, 0)},
		TopDiverseEngineers: make([]EngineerCoverage, 0),
		TopCoveredCustomers: make([]CustomerCoverage, 0),
	}

	for _, key := range pairOrder {
		acc := pairs[key]
		res.TotalSO += acc.count
		p := Pair{Engineer: acc.engineer, Customer: acc.customer, SOCount: acc.count}
		if len(acc.resolution) > 0 {
			avg := round(mean(acc.resolution), 2)
			p.AvgResolutionTime = &avg
		}
		res.Matrix = append(res.Matrix, p)
	}
	res.Matrix = Rank(res.Matrix, func(p Pair) float64 { return float64(p.SOCount) }, comparePairs)
	res.TopPairs = TopN(res.Matrix, 10)

	engCov := make([]EngineerCoverage, 0, len(engineers.order))
	perEngineer := make([]float64, 0, len(engineers.order))
	for _, eng := range engineers.order {
		n := len(engineers.items[eng])
		engCov = append(engCov, EngineerCoverage{Engineer: eng, CustomerCount: n, SOCount: engineers.total(eng)})
		perEngineer = append(perEngineer, float64(n))
		if n > res.CoverageStats.MaxCustomersPerEngineer {
			res.CoverageStats.MaxCustomersPerEngineer = n
		}
	}

	custCov := make([]CustomerCoverage, 0, len(customers.order))
	perCustomer := make([]float64, 0, len(customers.order))
	for _, cust := range customers.order {
		served := customers.items[cust]
		n := len(served)
		custCov = append(custCov, CustomerCoverage{Customer: cust, EngineerCount: n, SOCount: customers.total(cust)})
		perCustomer = append(perCustomer, float64(n))
		if n > res.CoverageStats.MaxEngineersPerCustomer {
			res.CoverageStats.MaxEngineersPerCustomer = n
		}
		if n == 1 {
			for eng, count := range served {
				res.RiskAnalysis.SingleEngineerCustomers = append(res.RiskAnalysis.SingleEngineerCustomers,
					RiskCustomer{Customer: cust, Engineer: eng, SOCount: count})
			}
		}
	}

	res.CoverageStats.AvgCustomersPerEngineer = round(mean(perEngineer), 2)
	res.CoverageStats.AvgEngineersPerCustomer = round(mean(perCustomer), 2)
	res.RiskAnalysis.RiskCount = len(res.RiskAnalysis.SingleEngineerCustomers)

	res.TopDiverseEngineers = TopN(RankByLabel(engCov,
		func(e EngineerCoverage) float64 { return float64(e.CustomerCount) },
		func(e EngineerCoverage) string { return e.Engineer }), 10)
	res.TopCoveredCustomers = TopN(RankByLabel(custCov,
		func(c CustomerCoverage) float64 { return float64(c.EngineerCount) },
		func(c CustomerCoverage) string { return c.Customer }), 10)

	return res
}

// comparePairs: инженер, потом клиент, по алфавиту.
func comparePairs(a, b Pair) int {
	if c := strings.Compare(a.Engineer, b.Engineer); c != 0 {
		return c
	}
	return strings.Compare(a.Customer, b.Customer)
}
