package setar

import (
	"context"
	"errors"
	"fmt"
	"math"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	pd "github.com/rocketlaunchr/dataframe-go/pandas"
)

// Summary function is used to Print out Data Summary
// From the fitted Model
func (m *Model) Summary() {
	if m.res == nil {
		fmt.Println("setar: model has not been fitted")
		return
	}

	order := dataframe.NewSeriesFloat64("Order", nil, m.cfg.Order)
	arOrder := dataframe.NewSeriesFloat64("AR Order", nil, m.cfg.AROrder)
	delay := dataframe.NewSeriesFloat64("Delay", nil, m.delay)

	infoParams := dataframe.NewDataFrame(order, arOrder, delay)
	fmt.Println(infoParams.Table())

	thresholds := dataframe.NewSeriesFloat64("Thresholds", nil)
	thresholds.Values = append([]float64(nil), m.thresholds...)
	fmt.Println(dataframe.NewDataFrame(thresholds).Table())

	// One coefficient column per regime: intercept first, then the lags.
	k := m.cfg.AROrder + 1
	regimeSeries := make([]dataframe.Series, 0, m.cfg.Order)
	for i := 0; i < m.cfg.Order; i++ {
		s := dataframe.NewSeriesFloat64(fmt.Sprintf("Regime %d", i), nil)
		s.Values = append([]float64(nil), m.res.Coefficients[i*k:(i+1)*k]...)
		regimeSeries = append(regimeSeries, s)
	}
	fmt.Println(dataframe.NewDataFrame(regimeSeries...).Table())

	sse, mae, rmse, mape := m.accuracy()

	sseS := dataframe.NewSeriesFloat64("SSE", nil, sse)
	maeS := dataframe.NewSeriesFloat64("MAE", nil, mae)
	rmseS := dataframe.NewSeriesFloat64("RMSE", nil, rmse)
	mapeS := dataframe.NewSeriesFloat64("MAPE", nil, mape)
	rsq := dataframe.NewSeriesFloat64("R-Squared", nil, m.res.RSquared)

	accuracyErrors := dataframe.NewDataFrame(sseS, maeS, rmseS, mapeS, rsq)
	fmt.Println(accuracyErrors.Table())
}

// accuracy computes in-sample error measures from the terminal regression.
func (m *Model) accuracy() (sse, mae, rmse, mape float64) {
	n := len(m.res.Residuals)
	if n == 0 {
		return
	}

	var mapeN int
	for i, e := range m.res.Residuals {
		sse += e * e
		mae += math.Abs(e)
		if actual := m.endog[i]; actual != 0 {
			mape += math.Abs(e / actual)
			mapeN++
		}
	}

	mae /= float64(n)
	rmse = math.Sqrt(sse / float64(n))
	if mapeN > 0 {
		mape = mape / float64(mapeN) * 100
	}
	return
}

// Describe outputs various statistical information of the original series,
// the fitted values or the residuals of a fitted Model
func (m *Model) Describe(ctx context.Context, typ DataType, opts ...pd.DescribeOptions) {
	var o pd.DescribeOptions

	if len(opts) > 0 {
		o = opts[0]
	}

	var data *dataframe.SeriesFloat64

	if typ == MainData {
		data = m.data
	} else if typ == FittedData {
		if m.res == nil {
			panic(errors.New("setar: model has not been fitted"))
		}
		data = dataframe.NewSeriesFloat64("Fitted", nil)
		data.Values = append([]float64(nil), m.res.Fitted...)
	} else if typ == ResidualData {
		if m.res == nil {
			panic(errors.New("setar: model has not been fitted"))
		}
		data = dataframe.NewSeriesFloat64("Residuals", nil)
		data.Values = append([]float64(nil), m.res.Residuals...)
	} else {
		panic(errors.New("unrecognised data type selection specified"))
	}

	output, err := pd.Describe(ctx, data, o)
	if err != nil {
		panic(err)
	}
	fmt.Println(output)
}
