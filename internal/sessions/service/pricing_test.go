package service

import (
	"testing"

	"skyseat/pkg/model"
)

func TestFareSnapshot(t *testing.T) {
	tests := []struct {
		name        string
		fare        model.FlightFare
		pax         model.PassengerCounts
		expected    model.PriceSnapshot
		description string
	}{
		{
			name: "family of four on a domestic fare",
			fare: model.FlightFare{
				Currency:   "VND",
				BasePrice:  1_000_000,
				Tax:        100_000,
				ServiceFee: 50_000,
			},
			pax: model.PassengerCounts{Adults: 2, Children: 1, Infants: 1},
			expected: model.PriceSnapshot{
				Currency: "VND",
				Adult:    1_150_000,
				Child:    862_500,
				Infant:   115_000,
				Total:    3_277_500,
			},
			description: "adult unit is base+tax+fee, child 75%, infant 10%, total weighted by counts",
		},
		{
			name: "single adult pays exactly the adult unit",
			fare: model.FlightFare{
				Currency:   "VND",
				BasePrice:  2_500_000,
				Tax:        250_000,
				ServiceFee: 0,
			},
			pax: model.PassengerCounts{Adults: 1},
			expected: model.PriceSnapshot{
				Currency: "VND",
				Adult:    2_750_000,
				Child:    2_062_500,
				Infant:   275_000,
				Total:    2_750_000,
			},
			description: "child and infant units are still snapshotted even with none travelling",
		},
		{
			name: "odd adult unit rounds the child fraction up",
			fare: model.FlightFare{
				Currency:   "VND",
				BasePrice:  99,
				Tax:        0,
				ServiceFee: 0,
			},
			pax: model.PassengerCounts{Adults: 1, Children: 1},
			expected: model.PriceSnapshot{
				Currency: "VND",
				Adult:    99,
				Child:    74,
				Infant:   10,
				Total:    173,
			},
			description: "99*0.75=74.25 rounds to 74, 99*0.10=9.9 rounds to 10",
		},
		{
			name: "zero fare stays zero",
			fare: model.FlightFare{Currency: "USD"},
			pax:  model.PassengerCounts{Adults: 3, Children: 2, Infants: 1},
			expected: model.PriceSnapshot{
				Currency: "USD",
			},
			description: "promotional zero fares produce zero units and totals",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fareSnapshot(&tt.fare, tt.pax)
			if got != tt.expected {
				t.Errorf("fareSnapshot() = %+v, expected %+v: %s", got, tt.expected, tt.description)
			}
		})
	}
}

func TestFareSnapshotTotalMatchesUnitSum(t *testing.T) {
	fare := &model.FlightFare{Currency: "VND", BasePrice: 1_234_567, Tax: 98_765, ServiceFee: 43_210}
	pax := model.PassengerCounts{Adults: 4, Children: 3, Infants: 2}

	got := fareSnapshot(fare, pax)
	want := 4*got.Adult + 3*got.Child + 2*got.Infant
	if got.Total != want {
		t.Errorf("Total = %d, expected weighted unit sum %d", got.Total, want)
	}
}
