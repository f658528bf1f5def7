// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPageSize   = errors.New("page size must be positive")
	ErrInvalidPageNumber = errors.New("page number must be at least 1")
)

// PaginationError reports a rejected page request.
type PaginationError struct {
	Page     int
	PageSize int
	Err      error
}

func (e *PaginationError) Error() string {
	return fmt.Sprintf("invalid pagination (page=%d, pageSize=%d): %v", e.Page, e.PageSize, e.Err)
}

func (e *PaginationError) Unwrap() error {
	return e.Err
}
