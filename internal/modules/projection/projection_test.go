package projection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectPortfolio_ZeroMonthsIsIdentity(t *testing.T) {
	p := ProjectPortfolio(12345.67, 10, 0, 0)

	assert.Equal(t, 12345.67, p.FutureValue)
	require.Len(t, p.Path, 1)
	assert.Equal(t, Point{Month: 0, Value: 12345.67}, p.Path[0])
}

func TestProjectPortfolio_Path(t *testing.T) {
	p := ProjectPortfolio(1000, 12, 30, 100)

	require.Len(t, p.Path, 4)
	assert.Equal(t, []int{0, 12, 24, 30}, []int{p.Path[0].Month, p.Path[1].Month, p.Path[2].Month, p.Path[3].Month})
	assert.Equal(t, p.FutureValue, p.Path[3].Value)
	assert.Equal(t, 3000.0, p.Contributed)

	growth := math.Pow(1.01, 12)
	assert.InDelta(t, 1000*growth+100*(growth-1)/0.01, p.Path[1].Value, 1e-9)
}

func TestProjectPortfolio_ExactYears(t *testing.T) {
	p := ProjectPortfolio(1000, 12, 24, 0)

	require.Len(t, p.Path, 3)
	assert.Equal(t, 24, p.Path[2].Month)
}

func TestProjectPortfolio_ZeroRate(t *testing.T) {
	p := ProjectPortfolio(1000, 0, 10, 50)
	assert.Equal(t, 1500.0, p.FutureValue)
}

func TestProjectPortfolio_NegativeMonths(t *testing.T) {
	p := ProjectPortfolio(1000, 12, -3, 50)
	assert.Equal(t, 0, p.Months)
	assert.Equal(t, 1000.0, p.FutureValue)
}

func TestProjectSIP(t *testing.T) {
	p := ProjectSIP(100, 12, 12)

	assert.InDelta(t, 1280.9328043328946, p.FutureValue, 1e-9)
	assert.Equal(t, 1200.0, p.Invested)
	assert.InDelta(t, 80.9328043328946, p.Gain, 1e-9)
}

func TestStandardSIPHorizons(t *testing.T) {
	got := StandardSIPHorizons(500)

	require.Len(t, got, 4)
	assert.Equal(t, []int{12, 60, 120, 240}, []int{got[0].Months, got[1].Months, got[2].Months, got[3].Months})
	for _, p := range got {
		assert.Equal(t, 10.0, p.AnnualRate)
	}
	assert.Less(t, got[0].FutureValue, got[3].FutureValue)
}

func TestAnalyze(t *testing.T) {
	s := Analyze(10000, 500)

	require.Len(t, s.Market, 3)
	assert.InDelta(t, 12000, s.Market[0].Value, 1e-9)
	assert.InDelta(t, 7000, s.Market[1].Value, 1e-9)
	assert.InDelta(t, 6000, s.Market[2].Value, 1e-9)

	require.Len(t, s.Inflation, 2)
	assert.InDelta(t, 10000/1.08, s.Inflation[0].RealValue, 1e-9)
	assert.InDelta(t, 10000/math.Pow(1.08, 5), s.Inflation[1].RealValue, 1e-9)

	require.Len(t, s.SIP, 3)
	assert.Equal(t, "conservative", s.SIP[0].Name)
	assert.Less(t, s.SIP[0].Value, s.SIP[1].Value)
	assert.Less(t, s.SIP[1].Value, s.SIP[2].Value)
}

func TestAnalyze_NoSIP(t *testing.T) {
	s := Analyze(10000, 0)
	assert.Empty(t, s.SIP)
	assert.Len(t, s.Market, 3)
}
