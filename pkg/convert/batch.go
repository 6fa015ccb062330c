// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package convert

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/touni/pkg/fsio"
)

// Job is one input, the converter for it and where its result goes.
type Job struct {
	Conv *Converter
	In   fsio.Input
	Out  fsio.Output
}

// Result records a finished job.
type Result struct {
	Job   Job
	Stats Stats
}

// Report is called after each successful job.
type Report func(ctx context.Context, r Result)

// 🏃 Runner converts jobs one after another, stopping at the first failure.
// Jobs that finished before the failure keep their output.
type Runner struct {
	report Report
}

// NewRunner returns a runner. report may be nil.
func NewRunner(report Report) *Runner {
	return &Runner{report: report}
}

// Run executes jobs in order.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	logger := zerolog.Ctx(ctx)
	results := make([]Result, 0, len(jobs))

	for i, job := range jobs {
		logger.Debug().Int("job", i+1).Int("of", len(jobs)).Str("input", job.In.Name()).Msg("running job")

		st, err := job.Conv.Convert(ctx, job.In, job.Out)
		if err != nil {
			return results, err
		}

		res := Result{Job: job, Stats: st}
		results = append(results, res)
		if r.report != nil {
			r.report(ctx, res)
		}
	}
	return results, nil
}
