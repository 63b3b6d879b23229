// Package lib holds modules that do not fit strictly into other layers.
//
// Currently that is background job processing (Redis/Asynq) in lib/job.
package lib
