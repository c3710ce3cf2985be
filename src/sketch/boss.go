package sketch

import (
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"

	"github.com/fbreitwieser/Mash/src/params"
)

// BUFFERSIZE is the size of the buffer used by the job channel
const BUFFERSIZE int = 64

// theBoss is used to orchestrate the minions
type theBoss struct {
	parameters *params.Parameters
	sources    []string           // the input sources, in order
	results    [][]*Reference     // the references from each source, indexed like sources
	errors     []error            // the error from each source, indexed like sources
	verbosity  int                // a progress bar is shown above 1
	logger     *zap.SugaredLogger
	sequences  int                // the total records read by the minions
	residues   uint64             // the total residues read by the minions
	sync.Mutex                    // allows minions to update the Boss's count
}

// newBoss will initialise and return theBoss
func newBoss(parameters *params.Parameters, sources []string, verbosity int, logger *zap.SugaredLogger) *theBoss {
	return &theBoss{
		parameters: parameters,
		sources:    sources,
		results:    make([][]*Reference, len(sources)),
		errors:     make([]error, len(sources)),
		verbosity:  verbosity,
		logger:     logger,
	}
}

// sketchSources is a method to start off the minions, one source at a time each, and collect the references
func (theBoss *theBoss) sketchSources() error {
	workers := theBoss.parameters.Parallelism
	if workers < 1 {
		workers = 1
	}
	if workers > len(theBoss.sources) {
		workers = len(theBoss.sources)
	}
	theBoss.logger.Debugf("\tsketching workers: %d", workers)

	// process bar
	var pbs *mpb.Progress
	var bar *mpb.Bar
	var chDuration chan time.Duration
	var doneDuration chan struct{}
	if theBoss.verbosity > 1 {
		pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		bar = pbs.AddBar(int64(len(theBoss.sources)),
			mpb.PrependDecorators(
				decor.Name("sketched files: ", decor.WC{W: len("sketched files: "), C: decor.DindentRight}),
				decor.Name("", decor.WCSyncSpaceR),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
				decor.EwmaETA(decor.ET_STYLE_GO, 10),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)
		chDuration = make(chan time.Duration, workers)
		doneDuration = make(chan struct{})
		go func() {
			for t := range chDuration {
				bar.EwmaIncrBy(1, t)
			}
			doneDuration <- struct{}{}
		}()
	}

	// launch the minions
	jobs := make(chan int, BUFFERSIZE)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerNum int) {
			defer wg.Done()
			for idx := range jobs {
				start := time.Now()
				refs, counts, err := sketchSource(theBoss.sources[idx], theBoss.parameters)
				theBoss.results[idx] = refs
				theBoss.errors[idx] = err
				theBoss.Lock()
				theBoss.sequences += counts.sequences
				theBoss.residues += counts.residues
				theBoss.Unlock()
				if chDuration != nil {
					chDuration <- time.Since(start)
				}
			}
		}(i)
	}
	for idx := range theBoss.sources {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()
	if chDuration != nil {
		close(chDuration)
		<-doneDuration
		pbs.Wait()
	}

	// report the first failure in input order
	for _, err := range theBoss.errors {
		if err != nil {
			return err
		}
	}
	return nil
}
