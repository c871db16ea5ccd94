// Copyright (c) 2020 Ofte LLC,
// subject to the terms and conditions defined in the file LICENSE

package main

import (
	"fmt"
	nethttp "net/http"
	"os"
	"time"

	"github.com/fraugster/cli"
	"github.com/micro/go-micro/v2/broker"
	"github.com/ofte-auth/ponto/api/http"
	"github.com/ofte-auth/ponto/internal"
	"github.com/ofte-auth/ponto/internal/records"
	"github.com/ofte-auth/ponto/internal/util"
	"github.com/ofte-auth/ponto/internal/view"
	log "github.com/sirupsen/logrus"
	config "github.com/spf13/viper"
)

func main() {
	var err error
	fmt.Println(internal.VersionVerbose())

	util.InitConfig()
	ctx := cli.Context()

	recordsClient, err := records.NewClient(records.Config{
		BaseURL:          config.GetString("records_api_base"),
		AllocationsView:  config.GetString("records_allocations_view"),
		AccessCollection: config.GetString("records_access_collection"),
		Timeout:          config.GetDuration("records_timeout"),
	})
	if err != nil {
		log.WithError(err).WithField("service", "ponto").Error("Invalid records api configuration, exiting")
		os.Exit(1)
	}

	err = util.Retry(ctx, 5, 250*time.Millisecond, func() error {
		err := recordsClient.Ping(ctx)
		if err != nil {
			log.WithError(err).WithField("service", "ponto").Warning("Error reaching records api, retrying")
		}
		return err
	})
	if err != nil {
		log.WithError(err).WithField("service", "ponto").Warning("Records api unreachable, starting anyway")
	}

	renderer, err := view.NewRenderer(config.GetString("templates_dir"), config.GetInt("template_cache_size"))
	if err != nil {
		log.WithError(err).WithField("service", "ponto").Error("Unable to open templates, exiting")
		os.Exit(1)
	}

	options := []func(*http.Handler) error{
		http.OptionRecords(recordsClient),
		http.OptionRenderer(renderer),
		http.OptionImages(view.NewAssets(config.GetString("images_dir"))),
		http.OptionIPAddress(config.GetString("ip_address")),
		http.OptionHTTPPort(config.GetInt("http_port")),
		http.OptionTLS(config.GetString("tls_certificate_file"), config.GetString("tls_private_key_file")),
		http.OptionParams("imagesDir", config.GetString("images_dir")),
		http.OptionParams("auditTopicPrefix", config.GetString("broker_topic_prefix")),
	}

	if config.GetBool("broker_enabled") {
		b := broker.NewBroker(broker.Addrs(config.GetStringSlice("broker_addrs")...))
		if err = b.Init(); err == nil {
			err = b.Connect()
		}
		if err != nil {
			log.WithError(err).WithField("service", "ponto").Warning("Unable to connect to message broker, audit events are only logged")
		} else {
			options = append(options, http.OptionMessageBroker(b))
		}
	}

	httpService, err := http.NewKioskHandler(ctx, options...)
	if err != nil {
		panic(err)
	}
	httpService.Init()
	go func() {
		err := httpService.Start()
		if err != nil && err != nethttp.ErrServerClosed {
			panic(err)
		}
	}()

	<-ctx.Done()
	_ = httpService.Stop()
}
