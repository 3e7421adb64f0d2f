package memstore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/contract-payments/internal/model"
)

// NewSeeded returns a store holding the reference data set: four clients,
// four contractors, nine contracts and fourteen jobs.
func NewSeeded() *Store {
	s := New()

	profiles := []model.Profile{
		{ID: 1, FirstName: "Harry", LastName: "Potter", Profession: "Wizard", Role: model.ProfileRoleClient, Balance: money("1150")},
		{ID: 2, FirstName: "Mr", LastName: "Robot", Profession: "Hacker", Role: model.ProfileRoleClient, Balance: money("231.11")},
		{ID: 3, FirstName: "John", LastName: "Snow", Profession: "Knows nothing", Role: model.ProfileRoleClient, Balance: money("451.3")},
		{ID: 4, FirstName: "Ash", LastName: "Kethcum", Profession: "Pokemon master", Role: model.ProfileRoleClient, Balance: money("1.3")},
		{ID: 5, FirstName: "John", LastName: "Lenon", Profession: "Musician", Role: model.ProfileRoleContractor, Balance: money("64")},
		{ID: 6, FirstName: "Linus", LastName: "Torvalds", Profession: "Programmer", Role: model.ProfileRoleContractor, Balance: money("1214")},
		{ID: 7, FirstName: "Alan", LastName: "Turing", Profession: "Programmer", Role: model.ProfileRoleContractor, Balance: money("22")},
		{ID: 8, FirstName: "Aragorn", LastName: "II Elessar Telcontarion", Profession: "Fighter", Role: model.ProfileRoleContractor, Balance: money("314")},
	}
	for _, p := range profiles {
		s.AddProfile(p)
	}

	contracts := []model.Contract{
		{ID: 1, Terms: "bla bla bla", Status: model.ContractStatusTerminated, ClientID: 1, ContractorID: 5},
		{ID: 2, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 1, ContractorID: 6},
		{ID: 3, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 2, ContractorID: 6},
		{ID: 4, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 2, ContractorID: 7},
		{ID: 5, Terms: "bla bla bla", Status: model.ContractStatusNew, ClientID: 3, ContractorID: 8},
		{ID: 6, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 3, ContractorID: 7},
		{ID: 7, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 4, ContractorID: 7},
		{ID: 8, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 4, ContractorID: 6},
		{ID: 9, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 4, ContractorID: 8},
	}
	for _, c := range contracts {
		s.AddContract(c)
	}

	jobs := []model.Job{
		{ID: 1, Description: "work", Price: money("200"), ContractID: 1},
		{ID: 2, Description: "work", Price: money("201"), ContractID: 2},
		{ID: 3, Description: "work", Price: money("202"), ContractID: 3},
		{ID: 4, Description: "work", Price: money("200"), ContractID: 4},
		{ID: 5, Description: "work", Price: money("200"), ContractID: 7},
		{ID: 6, Description: "work", Price: money("2020"), ContractID: 7, Paid: true, PaymentDate: day(2020, 8, 15)},
		{ID: 7, Description: "work", Price: money("200"), ContractID: 2, Paid: true, PaymentDate: day(2020, 8, 15)},
		{ID: 8, Description: "work", Price: money("200"), ContractID: 3, Paid: true, PaymentDate: day(2020, 8, 16)},
		{ID: 9, Description: "work", Price: money("200"), ContractID: 1, Paid: true, PaymentDate: day(2020, 8, 17)},
		{ID: 10, Description: "work", Price: money("200"), ContractID: 5, Paid: true, PaymentDate: day(2020, 8, 17)},
		{ID: 11, Description: "work", Price: money("21"), ContractID: 1, Paid: true, PaymentDate: day(2020, 8, 10)},
		{ID: 12, Description: "work", Price: money("21"), ContractID: 2, Paid: true, PaymentDate: day(2020, 8, 15)},
		{ID: 13, Description: "work", Price: money("121"), ContractID: 3, Paid: true, PaymentDate: day(2020, 8, 15)},
		{ID: 14, Description: "work", Price: money("121"), ContractID: 3, Paid: true, PaymentDate: day(2020, 8, 14)},
	}
	for _, j := range jobs {
		s.AddJob(j)
	}
	return s
}

func money(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 19, 11, 26, 0, time.UTC)
	return &t
}
