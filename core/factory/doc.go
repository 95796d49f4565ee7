// Package factory provides a small generic registry used to instantiate
// modules from configuration. Modules are defined by a type string and a
// map of raw settings. Factories decode the settings into typed structs
// and return the concrete implementation. The metrics sinks are the main
// user: each sink type registers itself and is created from the `sinks`
// list in the configuration file.
//
// Example usage:
//
//	reg := factory.NewRegistry[metrics.MetricsSink]()
//	reg.Register("influx", func(conf map[string]any) (metrics.MetricsSink, error) {
//	    var c struct {
//	        URL    string `json:"url"`
//	        Token  string `json:"token"`
//	        Org    string `json:"org"`
//	        Bucket string `json:"bucket"`
//	    }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return metrics.NewInfluxSink(c.URL, c.Token, c.Org, c.Bucket), nil
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "influx", Conf: map[string]any{"url": u}})
package factory
