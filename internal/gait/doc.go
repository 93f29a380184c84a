// Package gait turns a normalized parameter vector and elapsed time into six
// continuous joint-angle commands for a position servo.
//
// An [Encoding] fixes the layout of the parameter vector and the oscillator
// variant behind it. [Decode] maps the vector onto physical quantities, the
// variant's network advances one step per call, and the shaper folds each
// leg's rhythm into a stance/swing angle:
//
//	eng := gait.New(gait.ClockV4)
//	if err := eng.Configure([]float64{0.5, 0.5, 0.5, 0.5}); err != nil {
//	    return err
//	}
//	for t := 0.0; t < 5; t += 0.01 {
//	    angles, err := eng.Step(t)
//	    if err != nil {
//	        // errors.Is(err, dynamo.ErrNumericInstability): hold a safe command
//	    }
//	    servo.Command(angles)
//	}
//
// # Thread Safety
//
// An Engine owns its oscillator state and performs no locking. Callers that
// share one across goroutines must serialize Configure and Step.
package gait
