// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package cost reports actual costs from Azure Cost Management, per group
// tag and per service.
package cost

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/costmanagement/armcostmanagement/v2"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/unicloud/uc-adapter-azure/internal/naming"
	"github.com/unicloud/uc-adapter-azure/internal/resources"
)

var logger = loggo.GetLogger("uc.adapter.cost")

const (
	totalColumn    = "totalCost"
	costColumn     = "Cost"
	serviceColumn  = "ServiceName"
	tagValueColumn = "TagValue"
)

// Config holds the dependencies of a Reporter.
type Config struct {
	Client         *armcostmanagement.QueryClient
	SubscriptionID string
	TagKey         string
	Clock          clock.Clock
}

// Validate checks the configuration is complete.
func (c Config) Validate() error {
	if c.Client == nil {
		return errors.NotValidf("nil Client")
	}
	if c.SubscriptionID == "" {
		return errors.NotValidf("empty SubscriptionID")
	}
	if c.TagKey == "" {
		return errors.NotValidf("empty TagKey")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	return nil
}

// Reporter runs cost queries at subscription scope.
type Reporter struct {
	client *armcostmanagement.QueryClient
	scope  string
	tagKey string
	clock  clock.Clock
}

// NewReporter returns a Reporter.
func NewReporter(cfg Config) (*Reporter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Reporter{
		client: cfg.Client,
		scope:  "/subscriptions/" + cfg.SubscriptionID,
		tagKey: cfg.TagKey,
		clock:  cfg.Clock,
	}, nil
}

// Breakdown is a total cost split by service label.
type Breakdown struct {
	Total     float64
	ByService map[string]float64
}

// query describes one cost query.
type query struct {
	period     Period
	group      string
	byService  bool
	byGroupTag bool
}

func (r *Reporter) definition(q query) armcostmanagement.QueryDefinition {
	dataset := &armcostmanagement.QueryDataset{
		Aggregation: map[string]*armcostmanagement.QueryAggregation{
			totalColumn: {
				Name:     to.Ptr(costColumn),
				Function: to.Ptr(armcostmanagement.FunctionTypeSum),
			},
		},
	}
	if q.byService {
		dataset.Grouping = append(dataset.Grouping, &armcostmanagement.QueryGrouping{
			Type: to.Ptr(armcostmanagement.QueryColumnTypeDimension),
			Name: to.Ptr(serviceColumn),
		})
	}
	if q.byGroupTag {
		dataset.Grouping = append(dataset.Grouping, &armcostmanagement.QueryGrouping{
			Type: to.Ptr(armcostmanagement.QueryColumnTypeTagKey),
			Name: to.Ptr(r.tagKey),
		})
	}
	if q.group != "" {
		dataset.Filter = &armcostmanagement.QueryFilter{
			Tags: &armcostmanagement.QueryComparisonExpression{
				Name:     to.Ptr(r.tagKey),
				Operator: to.Ptr(armcostmanagement.QueryOperatorTypeIn),
				Values:   tagValues(q.group),
			},
		}
	}
	return armcostmanagement.QueryDefinition{
		Type:      to.Ptr(armcostmanagement.ExportTypeActualCost),
		Timeframe: to.Ptr(armcostmanagement.TimeframeTypeCustom),
		TimePeriod: &armcostmanagement.QueryTimePeriod{
			From: to.Ptr(q.period.From),
			To:   to.Ptr(q.period.end()),
		},
		Dataset: dataset,
	}
}

// tagValues matches resources tagged with either the name as given or its
// normalised form, as older resources carry the raw name.
func tagValues(group string) []*string {
	raw := strings.TrimSpace(group)
	values := []*string{to.Ptr(raw)}
	if normalized := naming.NormalizeName(raw); normalized != raw {
		values = append(values, to.Ptr(normalized))
	}
	return values
}

// table is a query result with columns addressed by name.
type table struct {
	columns map[string]int
	rows    [][]any
}

func (r *Reporter) run(ctx context.Context, q query) (table, error) {
	resp, err := r.client.Usage(ctx, r.scope, r.definition(q), nil)
	if err != nil {
		return table{}, errors.Annotatef(err, "querying costs for %s", q.period)
	}
	t := table{columns: make(map[string]int)}
	if resp.Properties == nil {
		return t, nil
	}
	for i, col := range resp.Properties.Columns {
		if col != nil && col.Name != nil {
			t.columns[strings.ToLower(*col.Name)] = i
		}
	}
	if _, ok := t.columns[strings.ToLower(totalColumn)]; !ok && len(resp.Properties.Rows) > 0 {
		return table{}, errors.Errorf("cost query result has no %s column", totalColumn)
	}
	if resp.Properties.NextLink != nil && *resp.Properties.NextLink != "" {
		logger.Warningf("cost query for %s returned more rows than a single page", q.period)
	}
	t.rows = resp.Properties.Rows
	return t, nil
}

func (t table) number(row []any, column string) float64 {
	i, ok := t.columns[strings.ToLower(column)]
	if !ok || i >= len(row) {
		return 0
	}
	switch v := row[i].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func (t table) text(row []any, column string) string {
	i, ok := t.columns[strings.ToLower(column)]
	if !ok || i >= len(row) || row[i] == nil {
		return ""
	}
	if s, ok := row[i].(string); ok {
		return s
	}
	return fmt.Sprint(row[i])
}

func (t table) total() float64 {
	var sum float64
	for _, row := range t.rows {
		sum += t.number(row, totalColumn)
	}
	return sum
}

func (t table) byService() Breakdown {
	b := Breakdown{ByService: make(map[string]float64)}
	for _, row := range t.rows {
		amount := t.number(row, totalColumn)
		b.Total += amount
		b.ByService[resources.ServiceLabel(t.text(row, serviceColumn))] += amount
	}
	return b
}

func (r *Reporter) period(start, end string) (Period, error) {
	p, err := ParsePeriod(start, end, r.clock.Now())
	return p, errors.Trace(err)
}

func checkGroup(group string) error {
	if strings.TrimSpace(group) == "" {
		return errors.NotValidf("empty group name")
	}
	return nil
}

// GroupTotal returns the cost of the resources tagged for group.
func (r *Reporter) GroupTotal(ctx context.Context, group, start, end string) (float64, error) {
	if err := checkGroup(group); err != nil {
		return 0, errors.Trace(err)
	}
	p, err := r.period(start, end)
	if err != nil {
		return 0, errors.Trace(err)
	}
	t, err := r.run(ctx, query{period: p, group: group})
	if err != nil {
		return 0, errors.Trace(err)
	}
	return t.total(), nil
}

// AllGroupTotals returns the cost per group, keyed by the group's display
// name. Untagged costs are left out.
func (r *Reporter) AllGroupTotals(ctx context.Context, start, end string) (map[string]float64, error) {
	p, err := r.period(start, end)
	if err != nil {
		return nil, errors.Trace(err)
	}
	t, err := r.run(ctx, query{period: p, byGroupTag: true})
	if err != nil {
		return nil, errors.Trace(err)
	}
	totals := make(map[string]float64)
	for _, row := range t.rows {
		value := strings.TrimSpace(t.text(row, tagValueColumn))
		if value == "" {
			continue
		}
		name := naming.DenormalizeGroupName(naming.NormalizeName(value))
		totals[name] += t.number(row, totalColumn)
	}
	return totals, nil
}

// SubscriptionTotal returns the cost of the whole subscription.
func (r *Reporter) SubscriptionTotal(ctx context.Context, start, end string) (float64, error) {
	p, err := r.period(start, end)
	if err != nil {
		return 0, errors.Trace(err)
	}
	t, err := r.run(ctx, query{period: p})
	if err != nil {
		return 0, errors.Trace(err)
	}
	return t.total(), nil
}

// GroupServiceBreakdown returns the cost of group split by service.
func (r *Reporter) GroupServiceBreakdown(ctx context.Context, group, start, end string) (Breakdown, error) {
	if err := checkGroup(group); err != nil {
		return Breakdown{}, errors.Trace(err)
	}
	p, err := r.period(start, end)
	if err != nil {
		return Breakdown{}, errors.Trace(err)
	}
	t, err := r.run(ctx, query{period: p, group: group, byService: true})
	if err != nil {
		return Breakdown{}, errors.Trace(err)
	}
	return t.byService(), nil
}

// SubscriptionServiceBreakdown returns the cost of the subscription split
// by service.
func (r *Reporter) SubscriptionServiceBreakdown(ctx context.Context, start, end string) (Breakdown, error) {
	p, err := r.period(start, end)
	if err != nil {
		return Breakdown{}, errors.Trace(err)
	}
	t, err := r.run(ctx, query{period: p, byService: true})
	if err != nil {
		return Breakdown{}, errors.Trace(err)
	}
	return t.byService(), nil
}

// GroupLastSixMonthsByService returns the cost of group over the last six
// complete months, split by service.
func (r *Reporter) GroupLastSixMonthsByService(ctx context.Context, group string) (map[string]float64, error) {
	if err := checkGroup(group); err != nil {
		return nil, errors.Trace(err)
	}
	t, err := r.run(ctx, query{
		period:    lastSixMonthsPeriod(r.clock.Now()),
		group:     group,
		byService: true,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return t.byService().ByService, nil
}

// GroupMonthlyLastSixMonths returns the cost of group for each of the last
// six complete months, keyed YYYY-MM. Every month is present, with zero
// for months without costs. Each month is queried separately.
func (r *Reporter) GroupMonthlyLastSixMonths(ctx context.Context, group string) (map[string]float64, error) {
	if err := checkGroup(group); err != nil {
		return nil, errors.Trace(err)
	}
	months := LastSixMonths(r.clock.Now())
	costs := make(map[string]float64, len(months))
	for _, m := range months {
		t, err := r.run(ctx, query{period: m.Period, group: group})
		if err != nil {
			return nil, errors.Annotatef(err, "month %s", m.Key)
		}
		costs[m.Key] = t.total()
	}
	return costs, nil
}
