// Package handler contains the HTTP handlers of the reservation service.
// Handlers validate input, orchestrate repositories (opening transactions
// on the resolved city-primary store where atomicity matters) and map
// repository sentinel errors to HTTP statuses.
package handler

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
)

// dateLayout is the wire format of all civil dates in the API.
const dateLayout = "2006-01-02"

// pathID parses a positive uint64 path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

// parseDateRange parses a start/end pair and enforces start < end.  The
// range is half-open: end is the checkout day and carries no night.
func parseDateRange(startStr, endStr string) (start, end time.Time, ok bool) {
    start, err := time.Parse(dateLayout, startStr)
    if err != nil {
        return time.Time{}, time.Time{}, false
    }
    end, err = time.Parse(dateLayout, endStr)
    if err != nil {
        return time.Time{}, time.Time{}, false
    }
    if !start.Before(end) {
        return time.Time{}, time.Time{}, false
    }
    return start, end, true
}
