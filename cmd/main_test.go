package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/learnboard/internal/config"
	"github.com/okian/learnboard/internal/domain/window"
	"github.com/okian/learnboard/internal/fakeplatform"
	"github.com/okian/learnboard/pkg/logger"
	"github.com/okian/learnboard/pkg/metrics"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("LEARNBOARD_ADDR", ":8080")
			_ = os.Setenv("LEARNBOARD_DEFAULT_WINDOW", "1y")
			_ = os.Setenv("LEARNBOARD_RING_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("LEARNBOARD_ADDR")
				_ = os.Unsetenv("LEARNBOARD_DEFAULT_WINDOW")
				_ = os.Unsetenv("LEARNBOARD_RING_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load()
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")

				convey.Convey("And the service should pick it up", func() {
					svc := newService(cfg, logger.Nop())
					d := svc.Defaults()
					convey.So(d.Window, convey.ShouldEqual, window.OneYear)
					convey.So(d.RingCount, convey.ShouldEqual, 4)
					convey.So(d.Canvas.Width, convey.ShouldEqual, cfg.CanvasWidth)
				})
			})
		})

		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("LEARNBOARD_ADDR", "")
			defer func() { _ = os.Unsetenv("LEARNBOARD_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When deriving the write timeout", func() {
			cfg := config.New()
			cfg.RequestTimeoutMS = 1000

			convey.Convey("Then it covers both upstream queries", func() {
				convey.So(writeTimeout(cfg), convey.ShouldEqual, 7*time.Second)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the metrics section is configured", func() {
			cfg := config.New()
			cfg.MetricsPrefix = "dev"
			cfg.MetricsLabels = map[string]string{"campus": "bahrain"}
			cfg.MetricsRefreshMS = 1500
			metrics.Configure(metricsOptions(cfg)...)
			defer metrics.Configure()

			metrics.RecordSignIn("ok")
			families, err := metrics.GetRegistry().Gather()

			convey.Convey("Then the exposed metrics carry the prefix and labels", func() {
				convey.So(err, convey.ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() != "learnboard_dashboard_dev_signins_total" {
						continue
					}
					found = true
					labels := map[string]string{}
					for _, l := range f.GetMetric()[0].GetLabel() {
						labels[l.GetName()] = l.GetValue()
					}
					convey.So(labels["campus"], convey.ShouldEqual, "bahrain")
				}
				convey.So(found, convey.ShouldBeTrue)
			})

			convey.Convey("And the gauge updater follows the refresh period", func() {
				convey.So(metrics.RefreshInterval(), convey.ShouldEqual, 1500*time.Millisecond)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should stop with its context", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given the application wired to a fake platform", t, func() {
		fcfg := fakeplatform.DefaultConfig()
		fcfg.Reference = time.Now().UTC()
		upstream := httptest.NewServer(fakeplatform.New(fcfg).Handler())
		defer upstream.Close()

		cfg := config.New()
		cfg.PlatformURL = upstream.URL
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		app := httptest.NewServer(newMux(ctx, newService(cfg, logger.Nop()), logger.Nop()))
		defer app.Close()

		convey.Convey("When a learner signs in and opens the dashboard", func() {
			body := `{"identifier":"` + fcfg.Identifier + `","password":"` + fcfg.Password + `"}`
			resp, err := http.Post(app.URL+"/signin", "application/json", strings.NewReader(body))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

			var sess struct {
				Token string `json:"token"`
			}
			convey.So(json.NewDecoder(resp.Body).Decode(&sess), convey.ShouldBeNil)

			req, _ := http.NewRequestWithContext(ctx, http.MethodGet, app.URL+"/dashboard?window=1y", http.NoBody)
			req.Header.Set("Authorization", "Bearer "+sess.Token)
			dash, err := http.DefaultClient.Do(req)
			convey.So(err, convey.ShouldBeNil)
			defer dash.Body.Close()

			convey.Convey("Then every chart is rendered", func() {
				convey.So(dash.StatusCode, convey.ShouldEqual, http.StatusOK)
				var m struct {
					XP struct {
						Points []json.RawMessage `json:"points"`
					} `json:"xp"`
					Projects struct {
						Total int `json:"total"`
					} `json:"projects"`
					Skills struct {
						Axes []json.RawMessage `json:"axes"`
					} `json:"skills"`
					Errors []json.RawMessage `json:"errors"`
				}
				convey.So(json.NewDecoder(dash.Body).Decode(&m), convey.ShouldBeNil)
				convey.So(len(m.XP.Points), convey.ShouldEqual, fcfg.XPCount)
				convey.So(m.Projects.Total, convey.ShouldBeGreaterThan, 0)
				convey.So(len(m.Skills.Axes), convey.ShouldEqual, len(fcfg.SkillTypes))
				convey.So(m.Errors, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When the platform serves a malformed XP row", func() {
			bad := fcfg
			bad.MalformedXP = true
			broken := httptest.NewServer(fakeplatform.New(bad).Handler())
			defer broken.Close()
			bcfg := config.New()
			bcfg.PlatformURL = broken.URL
			partial := httptest.NewServer(newMux(ctx, newService(bcfg, logger.Nop()), logger.Nop()))
			defer partial.Close()

			body := `{"identifier":"` + fcfg.Identifier + `","password":"` + fcfg.Password + `"}`
			resp, err := http.Post(partial.URL+"/signin", "application/json", strings.NewReader(body))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()
			var sess struct {
				Token string `json:"token"`
			}
			convey.So(json.NewDecoder(resp.Body).Decode(&sess), convey.ShouldBeNil)

			req, _ := http.NewRequestWithContext(ctx, http.MethodGet, partial.URL+"/dashboard", http.NoBody)
			req.Header.Set("Authorization", "Bearer "+sess.Token)
			dash, err := http.DefaultClient.Do(req)
			convey.So(err, convey.ShouldBeNil)
			defer dash.Body.Close()

			convey.Convey("Then the other charts are served with an XP error entry", func() {
				convey.So(dash.StatusCode, convey.ShouldEqual, http.StatusOK)
				var m struct {
					XP       json.RawMessage `json:"xp"`
					Projects struct {
						Total int `json:"total"`
					} `json:"projects"`
					Errors []struct {
						Chart string `json:"chart"`
						Code  string `json:"code"`
					} `json:"errors"`
				}
				convey.So(json.NewDecoder(dash.Body).Decode(&m), convey.ShouldBeNil)
				convey.So(string(m.XP), convey.ShouldEqual, "null")
				convey.So(m.Projects.Total, convey.ShouldBeGreaterThan, 0)
				convey.So(len(m.Errors), convey.ShouldEqual, 1)
				convey.So(m.Errors[0].Chart, convey.ShouldEqual, "xp")
				convey.So(m.Errors[0].Code, convey.ShouldEqual, "malformed_record")
			})
		})

		convey.Convey("When the docs are requested", func() {
			resp, err := http.Get(app.URL + "/openapi.yaml")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then they are served next to the API", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}
