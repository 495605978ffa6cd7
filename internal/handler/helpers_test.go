package handler_test

import (
	"context"
	"strconv"
)

func jsonID(id uint64) string { return strconv.FormatUint(id, 10) }

func c0() context.Context { return context.Background() }
