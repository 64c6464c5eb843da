package task

import (
	"github.com/meridianchain/meridian/internal/shutdown"
)

// joined is the value-independent view of a handle the panic monitor
// watches.
type joined interface {
	Wait() Outcome
	Diagnostic() string
}

// spawnMonitor watches a handle for an unrecovered fault and escalates it
// into a node-wide shutdown request. A fault anywhere must not leave the
// rest of the node running against an inconsistent world, so the policy is
// uniform: any fault requests a full halt. Completed and Cancelled outcomes
// need no action here.
//
// The shutdown send is best-effort and offered exactly once per fault: a
// full channel drops the request and the monitor does not retry. The
// detailed diagnosis belongs to the log entry, not to the reason.
func (ex *Executor) spawnMonitor(j joined, name string) {
	sender := ex.shutdown
	log := ex.log
	go func() {
		if j.Wait() != Faulted {
			return
		}
		log.Error("task panic, this is a bug",
			"task_name", name,
			"message", j.Diagnostic(),
			"advice", "please check above for a backtrace and notify the developers",
		)
		sender.TrySend(shutdown.Failure("task panic (fatal error)"))
	}()
}
