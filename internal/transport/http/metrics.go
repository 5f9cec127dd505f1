package httptransport

import "expvar"

var (
	metricSlipScanTotal   = expvar.NewInt("slip_scan_total")
	metricSlipScanErrors  = expvar.NewInt("slip_scan_errors_total")
	metricSlipGradeTotal  = expvar.NewInt("slip_grade_total")
	metricSlipGradeErrors = expvar.NewInt("slip_grade_errors_total")

	metricAskTotal  = expvar.NewInt("ledger_ask_total")
	metricAskErrors = expvar.NewInt("ledger_ask_errors_total")

	metricBetWritesTotal = expvar.NewInt("bet_writes_total")
)
