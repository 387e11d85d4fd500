package core

import "time"

// Test hooks for the external core_test package.

var RunStockCheck = (*Service).runStockCheck

func (s *Service) SetClock(now func() time.Time) { s.now = now }
