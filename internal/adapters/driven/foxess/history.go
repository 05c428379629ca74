package foxess

import (
	"context"
	"time"

	"github.com/custodia-labs/pvflow/internal/core/domain"
	"github.com/custodia-labs/pvflow/internal/core/ports/driven"
	"github.com/custodia-labs/pvflow/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.InverterHistory = (*Client)(nil)

// HistoryPath is the device history endpoint.
const HistoryPath = "/op/v0/device/history/query"

type historyRequest struct {
	Variables []string `json:"variables"`
	SN        string   `json:"sn"`
	Begin     int64    `json:"begin"`
	End       int64    `json:"end"`
}

type historyResult struct {
	Datas []historyData `json:"datas"`
}

type historyData struct {
	Variable string         `json:"variable"`
	Name     string         `json:"name"`
	Unit     string         `json:"unit"`
	Data     []historyPoint `json:"data"`
}

type historyPoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// QueryHistory returns the power history of the configured inverter for
// the given variables between begin and end inclusive.
func (c *Client) QueryHistory(
	ctx context.Context,
	variables []string,
	begin, end time.Time,
) ([]domain.PowerSeries, error) {
	req := historyRequest{
		Variables: variables,
		SN:        c.settings.Settings().FoxESS.SerialNumber,
		Begin:     begin.UnixMilli(),
		End:       end.UnixMilli(),
	}

	var results []historyResult
	if err := c.post(ctx, HistoryPath, req, &results); err != nil {
		return nil, err
	}

	var series []domain.PowerSeries
	for _, r := range results {
		for _, d := range r.Datas {
			series = append(series, toSeries(d))
		}
	}
	return series, nil
}

func toSeries(d historyData) domain.PowerSeries {
	s := domain.PowerSeries{
		Variable: d.Variable,
		Name:     d.Name,
		Unit:     d.Unit,
		Samples:  make([]domain.PowerSample, 0, len(d.Data)),
	}
	for _, p := range d.Data {
		t, err := domain.ParseDeviceTime(p.Time)
		if err != nil {
			logger.Debug("foxess: skipping %s sample: %v", d.Variable, err)
			continue
		}
		s.Samples = append(s.Samples, domain.PowerSample{Time: t, Value: p.Value})
	}
	return s
}
