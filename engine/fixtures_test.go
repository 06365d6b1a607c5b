package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spektr-org/reportes/currency"
)

// ============================================================================
// TEST FIXTURES
// ============================================================================
// Three customers with 1, 3 and 6 reservations (nuevo, recurrente, vip).
// BOB amounts are exact multiples of 6.96 so USD sums are round numbers.
//
//   id cust pkg/svc  total       status        date
//    1 100  pkg 1    500 USD     PAGADA        2025-01-10
//    2 101  pkg 2    150 USD     CONFIRMADA    2025-01-15
//    3 101  svc 10   278.40 BOB  PENDIENTE     2025-02-01   (40 USD)
//    4 101  pkg 3    2088 BOB    CANCELADA     2025-02-10   (300 USD)
//    5 102  pkg 1    500 USD     COMPLETADA    2025-02-12
//    6 102  svc 11   25 USD      PAGADA        2025-02-20
//    7 102  svc 10   40 USD      REPROGRAMADA  2025-03-01
//    8 102  pkg 2    150 USD     PAGADA        2025-03-05
//    9 102  svc 11   174 BOB     CANCELADA     2025-03-08   (25 USD)
//   10 102  pkg 1    1000 USD    PAGADA        2025-03-10
// ============================================================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func fixturePackages() []Package {
	return []Package{
		{ID: 1, Name: "Salar de Uyuni", BasePrice: dec("500"), Currency: currency.USD, Department: "Potosí", City: "Uyuni", DestinationType: "Natural", Featured: true, CampaignID: 7},
		{ID: 2, Name: "Tiwanaku Cultural", BasePrice: dec("150"), Currency: currency.USD, Department: "La Paz", City: "La Paz", DestinationType: "Cultural", Personalized: true},
		{ID: 3, Name: "Trekking Cordillera Real", BasePrice: dec("2088"), Currency: currency.BOB, Department: "La Paz", City: "Sorata", DestinationType: "Aventura"},
	}
}

func fixtureServices() []Service {
	return []Service{
		{ID: 10, Title: "Tour Cristo de la Concordia", Price: dec("40"), Department: "Cochabamba", City: "Cochabamba", Category: "Tours"},
		{ID: 11, Title: "Traslado aeropuerto", Price: dec("25"), Department: "Santa Cruz", City: "Santa Cruz de la Sierra", Category: "Transporte"},
	}
}

func fixtureCustomers() []Customer {
	return []Customer{
		{ID: 100, Name: "Ana Quispe", Email: "ana@example.com"},
		{ID: 101, Name: "Bruno Mamani"},
		{ID: 102, Name: "Carla Rojas"},
	}
}

func fixtureReservations() []Reservation {
	return []Reservation{
		{ID: 1, CustomerID: 100, PackageID: 1, Total: dec("500"), Currency: currency.USD, Status: StatusPaid, Date: day(2025, 1, 10)},
		{ID: 2, CustomerID: 101, PackageID: 2, Total: dec("150"), Currency: currency.USD, Status: StatusConfirmed, Date: day(2025, 1, 15)},
		{ID: 3, CustomerID: 101, ServiceID: 10, Total: dec("278.40"), Currency: currency.BOB, Status: StatusPending, Date: day(2025, 2, 1)},
		{ID: 4, CustomerID: 101, PackageID: 3, Total: dec("2088"), Currency: currency.BOB, Status: StatusCancelled, Date: day(2025, 2, 10)},
		{ID: 5, CustomerID: 102, PackageID: 1, Total: dec("500"), Currency: currency.USD, Status: StatusCompleted, Date: day(2025, 2, 12)},
		{ID: 6, CustomerID: 102, ServiceID: 11, Total: dec("25"), Currency: currency.USD, Status: StatusPaid, Date: day(2025, 2, 20)},
		{ID: 7, CustomerID: 102, ServiceID: 10, Total: dec("40"), Currency: currency.USD, Status: StatusReprogrammed, Date: day(2025, 3, 1)},
		{ID: 8, CustomerID: 102, PackageID: 2, Total: dec("150"), Currency: currency.USD, Status: StatusPaid, Date: day(2025, 3, 5)},
		{ID: 9, CustomerID: 102, ServiceID: 11, Total: dec("174"), Currency: currency.BOB, Status: StatusCancelled, Date: day(2025, 3, 8)},
		{ID: 10, CustomerID: 102, PackageID: 1, Total: dec("1000"), Currency: currency.USD, Status: StatusPaid, Date: day(2025, 3, 10)},
	}
}

func fixtureDataset() *Dataset {
	return NewDataset(fixtureReservations(), fixturePackages(), fixtureServices(), fixtureCustomers())
}

// ids returns the reservation ids of a view, sorted.
func ids(view View) []int64 {
	out := make([]int64, 0, view.Len())
	Each(view, func(r *Reservation) { out = append(out, r.ID) })
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// simpleDataset builds a dataset of USD package reservations with the
// given totals, one per customer id starting at 1.
func simpleDataset(totals ...string) *Dataset {
	res := make([]Reservation, 0, len(totals))
	for i, t := range totals {
		res = append(res, Reservation{
			ID: int64(i + 1), CustomerID: int64(i + 1), PackageID: 1,
			Total: dec(t), Currency: currency.USD, Status: StatusPaid, Date: day(2025, 1, i+1),
		})
	}
	return NewDataset(res, []Package{{ID: 1, Name: "Paquete", Currency: currency.USD}}, nil, nil)
}
