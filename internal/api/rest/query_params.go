package rest

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// DEFAULT_PAGE_SIZE is the transactions report page size when none is given
const DEFAULT_PAGE_SIZE = 25

// PAGE_SIZES are the page sizes the transactions report offers
var PAGE_SIZES = []int{25, 50, 100, 500}

// ViewQueryParams holds query parameters for GET /availability/condition/paypal/view.php
type ViewQueryParams struct {
	ContextID int64  `form:"contextid" binding:"required,gt=0"`
	SectionID int64  `form:"sectionid,default=0" binding:"gte=0"`
	Token     string `form:"token" binding:"max=64"`
}

// CheckAvailabilityQueryParams holds query parameters for GET /api/v1/availability/paypal/check
type CheckAvailabilityQueryParams struct {
	ContextID int64 `form:"contextid" binding:"required,gt=0"`
	SectionID int64 `form:"sectionid,default=0" binding:"gte=0"`
	UserID    int64 `form:"userid" binding:"required,gt=0"`
	Negate    *bool `form:"negate"`
}

// DescribeQueryParams holds query parameters for GET /api/v1/availability/paypal/describe
type DescribeQueryParams struct {
	ContextID int64 `form:"contextid" binding:"required,gt=0"`
	SectionID int64 `form:"sectionid,default=0" binding:"gte=0"`
	Negate    *bool `form:"negate"`
	Full      bool  `form:"full,default=false"`
}

// ListTransactionsQueryParams holds query parameters for GET /api/v1/transactions
type ListTransactionsQueryParams struct {
	// CourseID highlights rows of one course, other rows are dimmed
	CourseID int64  `form:"courseid,default=0" binding:"gte=0"`
	Limit    int    `form:"limit,default=25"`
	Offset   uint64 `form:"offset,default=0"`
}

// Validate checks the page size against the offered sizes
func (p *ListTransactionsQueryParams) Validate() error {
	for _, size := range PAGE_SIZES {
		if p.Limit == size {
			return nil
		}
	}
	return fmt.Errorf("limit must be one of %v", PAGE_SIZES)
}

// ParseViewQuery parses query parameters for the payment page
func ParseViewQuery(c *gin.Context) (*ViewQueryParams, error) {
	var params ViewQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// ParseCheckAvailabilityQuery parses query parameters for the access check
func ParseCheckAvailabilityQuery(c *gin.Context) (*CheckAvailabilityQueryParams, error) {
	var params CheckAvailabilityQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// ParseDescribeQuery parses query parameters for the condition description
func ParseDescribeQuery(c *gin.Context) (*DescribeQueryParams, error) {
	var params DescribeQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// ParseListTransactionsQuery parses query parameters for the transactions report
func ParseListTransactionsQuery(c *gin.Context) (*ListTransactionsQueryParams, error) {
	var params ListTransactionsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}
