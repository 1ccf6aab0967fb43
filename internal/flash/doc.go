// Package flash implements the timing engine behind wordflash.
//
// A [Controller] owns the token sequence, the current index, the recorded
// timing sequence and the active [Mode]. It never starts timers itself:
// operations that need a future callback return a [Tick], and the host (the
// terminal UI, a test, a CLI loop) delivers it back through
// [Controller.Fire] once [Tick.Delay] has elapsed.
//
//   - Recording: each manual advance appends the time since the previous one.
//   - Playing: ticks walk the recorded intervals in a loop until cancelled.
//   - Exporting: [Build] renders every token and hands it to an [Encoder]
//     tagged with its recorded delay.
//
// # Example
//
//	ctrl := flash.New(nil, flash.AfterRecordPlay)
//	ctrl.SetText("three blind mice")
//	_ = ctrl.StartRecording()
//	eff, _ := ctrl.Advance() // x3
//	next := ctrl.Fire(*eff.Tick)
//
// # Thread Safety
//
// Controller is NOT safe for concurrent use. It is meant to be driven from a
// single event loop; an [ExportJob] holds its own copies so [Build] can run
// off that loop.
package flash
