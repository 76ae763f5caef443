/*Package metrics wraps datadog-go to facilitate metric recording
Following are naming convention of metric:
- Internal process time: *.time
- External latency: *.latency
- Error: *.err
- Warning: *.warn
*/
package metrics

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/spf13/viper"

	"github.com/x-xyz/permapi/base/env"
	"github.com/x-xyz/permapi/base/log"
)

const (
	// TagValueNA is used for tags whose values are not available.
	TagValueNA = "n/a"

	// ddRate is the rate to pass metrics to datadog agent. 1 means always
	ddRate = 1
	// buffer 10 counters before sending to statsd
	bufferMetrics = 10

	ddPort = 8125
)

var (
	initOnce sync.Once
	ddClient *statsd.Client
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

func initDDClient() {
	host := viper.GetString("datadog_host")
	if host == "" {
		return
	}

	addr := fmt.Sprintf("%s:%d", host, ddPort)
	log.Log().WithField("addr", addr).Info("connecting to datadog agent")

	var err error
	ddClient, err = statsd.NewBuffered(addr, bufferMetrics)
	if err != nil {
		log.Log().WithFields(log.Fields{"addr": addr, "err": err}).Panic("can't talk to datadog agent")
	}
}

type impl struct {
	pfx  string
	tags []string
}

// New creates a metric client with package name as prefix
func New(pkgName string) Service {
	initOnce.Do(initDDClient)

	tags := []string{
		fmt.Sprintf("env:%s", env.EnvName()),
		fmt.Sprintf("app:%s", env.AppName()),
	}
	return &impl{
		pfx:  pkgName + ".",
		tags: tags,
	}
}

func (im *impl) BumpAvg(key string, val float64, tags ...string) {
	if ddClient == nil {
		log.Log().WithFields(log.Fields{"key": im.pfx + key, "val": val}).Debug("metric gauge")
		return
	}
	ddClient.Gauge(im.pfx+key, val, im.mergeTags(tags), ddRate)
}

func (im *impl) BumpSum(key string, val float64, tags ...string) {
	if ddClient == nil {
		log.Log().WithFields(log.Fields{"key": im.pfx + key, "val": val}).Debug("metric count")
		return
	}
	ddClient.Count(im.pfx+key, int64(val), im.mergeTags(tags), ddRate)
}

func (im *impl) BumpHistogram(key string, val float64, tags ...string) {
	if ddClient == nil {
		log.Log().WithFields(log.Fields{"key": im.pfx + key, "val": val}).Debug("metric histogram")
		return
	}
	ddClient.Histogram(im.pfx+key, val, im.mergeTags(tags), ddRate)
}

type timeEnder struct {
	im    *impl
	key   string
	tags  []string
	start time.Time
}

func (e *timeEnder) End() {
	elapsed := float64(time.Since(e.start)) / float64(time.Millisecond)
	if ddClient == nil {
		log.Log().WithFields(log.Fields{"key": e.im.pfx + e.key, "time_ms": elapsed}).Debug("metric time")
		return
	}
	ddClient.TimeInMilliseconds(e.im.pfx+e.key, elapsed, e.im.mergeTags(e.tags), ddRate)
}

func (im *impl) BumpTime(key string, tags ...string) Ender {
	return &timeEnder{
		im:    im,
		key:   key,
		tags:  tags,
		start: time.Now(),
	}
}

// mergeTags converts "k1, v1, k2, v2" style tags to datadog "k1:v1" format and
// appends the client level tags
func (im *impl) mergeTags(kvs []string) []string {
	tags := make([]string, 0, len(im.tags)+len(kvs)/2)
	tags = append(tags, im.tags...)
	for i := 0; i+1 < len(kvs); i += 2 {
		v := kvs[i+1]
		if v == "" {
			v = TagValueNA
		}
		tags = append(tags, strings.Join([]string{kvs[i], v}, ":"))
	}
	return tags
}
