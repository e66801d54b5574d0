package estimate

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/estimate"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

// Fields are the scalar estimate columns. A nil field is left unchanged.
type Fields struct {
	PropertyStreet  *string `json:"propertyStreet"`
	PropertyCity    *string `json:"propertyCity"`
	PropertyState   *string `json:"propertyState"`
	PropertyZipCode *string `json:"propertyZipCode"`
	PropertySize    *int    `json:"propertySize"`
	PropertyDetails *string `json:"propertyDetails"`

	CustomerNotes *string          `json:"customerNotes"`
	BudgetMin     *decimal.Decimal `json:"budgetMin"`
	BudgetMax     *decimal.Decimal `json:"budgetMax"`
	AccessInfo    *string          `json:"accessInfo"`

	Status          *string    `json:"status"`
	ApprovedPackage *string    `json:"approvedPackage"`
	ExpiryDate      *time.Time `json:"expiryDate"`

	DepositRequired *bool            `json:"depositRequired"`
	DepositAmount   *decimal.Decimal `json:"depositAmount"`
	AssignedToID    *uint            `json:"assignedToId"`
}

type ServiceLine struct {
	ServiceID uint `json:"serviceId"`
	Quantity  int  `json:"quantity"`
}

// apply copies every non-nil field onto e.
func (f Fields) apply(e *models.Estimate) error {
	setString(&e.PropertyStreet, f.PropertyStreet)
	setString(&e.PropertyCity, f.PropertyCity)
	setString(&e.PropertyState, f.PropertyState)
	setString(&e.PropertyZipCode, f.PropertyZipCode)
	setString(&e.PropertyDetails, f.PropertyDetails)
	setString(&e.CustomerNotes, f.CustomerNotes)
	setString(&e.AccessInfo, f.AccessInfo)

	if f.PropertySize != nil {
		e.PropertySize = *f.PropertySize
	}
	if f.BudgetMin != nil {
		e.BudgetMin = *f.BudgetMin
	}
	if f.BudgetMax != nil {
		e.BudgetMax = *f.BudgetMax
	}
	if f.ExpiryDate != nil {
		e.ExpiryDate = f.ExpiryDate
	}
	if f.DepositRequired != nil {
		e.DepositRequired = *f.DepositRequired
	}
	if f.DepositAmount != nil {
		if f.DepositAmount.IsNegative() {
			return httperr.ErrValidation("depositAmount cannot be negative")
		}
		e.DepositAmount = *f.DepositAmount
	}
	if f.AssignedToID != nil {
		e.AssignedToID = f.AssignedToID
	}
	if f.Status != nil {
		st, err := domain.ParseStatus(*f.Status)
		if err != nil {
			return err
		}
		e.Status = string(st)
	}
	if f.ApprovedPackage != nil {
		e.ApprovedPackage = *f.ApprovedPackage
	}

	if !e.BudgetMax.IsZero() && e.BudgetMax.LessThan(e.BudgetMin) {
		return httperr.ErrValidation("budgetMax must not be below budgetMin")
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// fillProperty copies the customer's address into blank property fields.
func fillProperty(e *models.Estimate, c *models.Customer) {
	if e.PropertyStreet == "" {
		e.PropertyStreet = c.Street
	}
	if e.PropertyCity == "" {
		e.PropertyCity = c.City
	}
	if e.PropertyState == "" {
		e.PropertyState = c.State
	}
	if e.PropertyZipCode == "" {
		e.PropertyZipCode = c.ZipCode
	}
	if e.PropertySize == 0 {
		e.PropertySize = c.PropertySize
	}
}

// buildServices validates lines against the catalogue.
func buildServices(ctx context.Context, repo domain.Repository, lines []ServiceLine) ([]models.EstimateService, error) {
	out := make([]models.EstimateService, len(lines))
	for i, l := range lines {
		out[i] = models.EstimateService{ServiceID: l.ServiceID, Quantity: l.Quantity}
	}
	if err := domain.ValidateServices(out); err != nil {
		return nil, err
	}
	for _, s := range out {
		if _, err := repo.GetService(ctx, s.ServiceID); err != nil {
			if httperr.IsBusiness(err, httperr.KindNotFound) {
				return nil, httperr.ErrNotFound(fmt.Sprintf("Service %d not found", s.ServiceID))
			}
			return nil, err
		}
	}
	return out, nil
}

// assertOwner fails unless a customer actor owns e. Staff always pass.
func assertOwner(ctx context.Context, repo domain.Repository, actor access.Actor, e *models.Estimate) error {
	if !actor.IsCustomer() {
		return nil
	}
	c, err := repo.GetCustomerByUserID(ctx, actor.UserID)
	if err != nil {
		if httperr.IsBusiness(err, httperr.KindNotFound) {
			return httperr.ErrForbidden("Not authorized to access this estimate")
		}
		return err
	}
	if c.ID != e.CustomerID {
		return httperr.ErrForbidden("Not authorized to access this estimate")
	}
	return nil
}
