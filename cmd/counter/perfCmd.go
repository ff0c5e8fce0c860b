package counter

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ValentinKolb/dCount/cmd/util"
	"github.com/ValentinKolb/dCount/rpc/common"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for dCount servers",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfNamePrefix    = "__test"
	perfNumThreads    = 10
	perfOpsPerThread  = 1000
	perfCounterSpread = 100
	perfSkip          = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. add,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "ops"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("Number of operations per thread"))
	key = "counters"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different counters to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfCounterSpread = viper.GetInt("counters")
	perfNumThreads = viper.GetInt("threads")
	perfOpsPerThread = viper.GetInt("ops")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for dCount servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d, Ops per thread: %d, Counters: %d\n", perfNumThreads, perfOpsPerThread, perfCounterSpread)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]metrics.Timer)

	addTimer := runBenchmark("add", func(i int, getName func(int) string) error {
		_, err := rpcCounter.AddAndGet(getName(i), 1)
		return err
	})
	results["add"] = addTimer
	printResult("add", addTimer)

	getAddTimer := runBenchmark("getadd", func(i int, getName func(int) string) error {
		_, err := rpcCounter.GetAndAdd(getName(i), 1)
		return err
	})
	results["getadd"] = getAddTimer
	printResult("getadd", getAddTimer)

	getTimer := runBenchmark("get", func(i int, getName func(int) string) error {
		_, err := rpcCounter.Get(getName(i))
		return err
	})
	results["get"] = getTimer
	printResult("get", getTimer)

	setTimer := runBenchmark("set", func(i int, getName func(int) string) error {
		return rpcCounter.Set(getName(i), int64(i))
	})
	results["set"] = setTimer
	printResult("set", setTimer)

	casTimer := runBenchmark("cas", func(i int, getName func(int) string) error {
		// expectation rarely holds, measures the failed-swap path too
		_, err := rpcCounter.CompareAndSet(getName(i), int64(i), int64(i+1))
		return err
	})
	results["cas"] = casTimer
	printResult("cas", casTimer)

	mixedTimer := runBenchmark("mixed", func(i int, getName func(int) string) error {
		name := getName(i)
		var err error
		switch i % 4 {
		case 0: // add
			_, err = rpcCounter.AddAndGet(name, 1)
		case 1: // get
			_, err = rpcCounter.Get(name)
		case 2: // set
			err = rpcCounter.Set(name, int64(i))
		case 3: // cas
			_, err = rpcCounter.CompareAndSet(name, int64(i), 0)
		}
		return err
	})
	results["mixed"] = mixedTimer
	printResult("mixed", mixedTimer)

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// runBenchmark runs op perfOpsPerThread times on each of perfNumThreads
// goroutines, timing every call, and destroys the test counters afterwards
func runBenchmark(test string, op func(i int, getName func(int) string) error) metrics.Timer {
	timer := metrics.NewTimer()

	if shouldSkip(test) {
		return timer
	}

	getName, iter := getCounterNames(test)

	var wg sync.WaitGroup
	for thread := 0; thread < perfNumThreads; thread++ {
		wg.Add(1)
		go func(thread int) {
			defer wg.Done()
			for i := 0; i < perfOpsPerThread; i++ {
				n := thread*perfOpsPerThread + i
				timer.Time(func() {
					if err := op(n, getName); err != nil {
						log.Printf("(%s) - operation failed: %v\n", test, err)
					}
				})
			}
		}(thread)
	}
	wg.Wait()

	// cleanup
	iter(func(name string) {
		if err := rpcCounter.Destroy(name); err != nil {
			log.Printf("(%s) - error destroying counter: %v\n", test, err)
		}
	})

	return timer
}

// creates an array of test counter names and functions to work with them
func getCounterNames(prefix string) (func(int) string, func(func(string))) {
	names := make([]string, perfCounterSpread)
	for i := 0; i < perfCounterSpread; i++ {
		names[i] = fmt.Sprintf("%s-%s-%d", perfNamePrefix, prefix, i)
	}

	// Function to get a name by index (with wraparound)
	getName := func(i int) string {
		return names[i%perfCounterSpread]
	}

	// Function to iterate over all names and apply a function to each
	iterateNames := func(fn func(string)) {
		for _, name := range names {
			fn(name)
		}
	}

	return getName, iterateNames
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, timer metrics.Timer) {
	if timer.Count() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	snapshot := timer.Snapshot()
	mean := time.Duration(snapshot.Mean())
	p95 := time.Duration(snapshot.Percentile(0.95))
	p99 := time.Duration(snapshot.Percentile(0.99))
	opsPerSec := snapshot.RateMean()

	// Print the formatted result
	fmt.Printf("%-20smean=%s\tp95=%s\tp99=%s\t%.0f ops/sec\n", test, mean, p95, p99, opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]metrics.Timer, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "Count", "MeanNs", "P95Ns", "P99Ns", "OpsPerSec", "Skipped",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"ShardID", "Serializer", "Transport",
		"Threads", "OpsPerThread", "Counters",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, timer := range results {
		snapshot := timer.Snapshot()
		skipped := strconv.FormatBool(snapshot.Count() == 0)

		row := []string{
			test,
			strconv.FormatInt(snapshot.Count(), 10),
			fmt.Sprintf("%.0f", snapshot.Mean()),
			fmt.Sprintf("%.0f", snapshot.Percentile(0.95)),
			fmt.Sprintf("%.0f", snapshot.Percentile(0.99)),
			fmt.Sprintf("%.0f", snapshot.RateMean()),
			skipped,
			strings.Join(config.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.RetryCount),
			strconv.Itoa(config.ConnectionsPerEndpoint),
			strconv.FormatUint(util.GetShardID(), 10),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfOpsPerThread),
			strconv.Itoa(perfCounterSpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
