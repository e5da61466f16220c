package main

import (
	"context"
	"errors"
	"fmt"
	clog "log"
	http0 "net/http"
	"os"
	"path"
	"time"

	"github.com/egorka-gh/fedexship/dispatcher"
	"github.com/egorka-gh/fedexship/fedex/service"
	"github.com/egorka-gh/fedexship/fedex/shipment"
	"github.com/egorka-gh/fedexship/journal"
	"github.com/egorka-gh/fedexship/journal/repo"
	"github.com/egorka-gh/fedexship/proxy"
	log "github.com/go-kit/kit/log"
	_ "github.com/go-sql-driver/mysql"
	"github.com/kardianos/osext"
	service1 "github.com/kardianos/service"
	group "github.com/oklog/oklog/pkg/group"

	"github.com/spf13/viper"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

//demon logger
var dLogger service1.Logger

type program struct {
	group     *group.Group
	rep       journal.Repository
	interrupt chan struct{}
	quit      chan struct{}
}

//start os demon or console using kardianos
func main() {
	err := readConfig()
	if err != nil {
		clog.Fatal(err)
		return
	}

	svcConfig := &service1.Config{
		Name:        "FedexShip",
		DisplayName: "FedEx Ship Service",
		Description: "Creates FedEx shipments",
	}
	prg := &program{}

	s, err := service1.New(prg, svcConfig)
	if err != nil {
		clog.Fatal(err)
		return
	}
	if len(os.Args) > 1 {
		err = service1.Control(s, os.Args[1])
		if err != nil {
			clog.Fatal(err)
		}
		return
	}
	dLogger, err = s.Logger(nil)
	if err != nil {
		clog.Fatal(err)
	}
	err = s.Run()
	if err != nil {
		dLogger.Error(err)
	}
}

func (p *program) Start(s service1.Service) error {
	g, rep, err := initFedex()
	if err != nil {
		return err
	}

	p.group = g
	p.rep = rep
	p.interrupt = make(chan struct{})
	p.quit = make(chan struct{})

	if service1.Interactive() {
		dLogger.Info("Running in terminal.")
		dLogger.Infof("Valid startup parametrs: %q\n", service1.ControlAction)
	} else {
		dLogger.Info("Starting FedexShip service...")
	}
	// Start should not block. Do the actual work async.
	go p.run()
	return nil
}

func (p *program) run() {
	//close db cnn
	defer func() {
		if p.rep != nil {
			p.rep.Close()
		}
	}()
	running := make(chan struct{})
	//initCancelInterrupt
	p.group.Add(
		func() error {
			select {
			case <-p.interrupt:
				return errors.New("fedexship: Get interrupt signal")
			case <-running:
				return nil
			}
		}, func(error) {
			close(running)
		})
	dLogger.Info("FedexShip started")
	dLogger.Info(p.group.Run())
	close(p.quit)
}

func (p *program) Stop(s service1.Service) error {
	// Stop should not block. Return with a few seconds.
	dLogger.Info("FedexShip Stopping!")
	//interrupt service
	close(p.interrupt)
	//waite service stops
	<-p.quit
	dLogger.Info("FedexShip stopped")
	return nil
}

func credentials() (shipment.Credentials, error) {
	c := shipment.Credentials{
		Key:           viper.GetString("fedex.key"),
		Password:      viper.GetString("fedex.password"),
		AccountNumber: viper.GetString("fedex.account"),
		MeterNumber:   viper.GetString("fedex.meter"),
	}
	if c.Key == "" || c.Password == "" || c.AccountNumber == "" || c.MeterNumber == "" {
		return c, errors.New("fedex credentials are not set (fedex.key, fedex.password, fedex.account, fedex.meter)")
	}
	return c, nil
}

func initFedex() (*group.Group, journal.Repository, error) {
	creds, err := credentials()
	if err != nil {
		return nil, nil, err
	}
	if viper.GetString("proxy.address") == "" {
		return nil, nil, errors.New("proxy.address is not set")
	}

	logger := initLoger(viper.GetString("folders.log"), "fedexship")

	cli := &http0.Client{Timeout: time.Duration(viper.GetInt("fedex.timeout")) * time.Second}
	svc, err := service.New(
		viper.GetString("fedex.baseURL"),
		creds,
		defaultHTTPOptions(cli, viper.GetBool("fedex.debug"), log.With(logger, "level", "transport")),
		defaultHTTPMiddleware(log.With(logger, "level", "transport")))
	if err != nil {
		return nil, nil, err
	}

	//journal is optional
	var rep journal.Repository
	if cnn := viper.GetString("mysql"); cnn != "" {
		rep, err = repo.New(cnn, viper.GetBool("mysqlCreateSchema"))
		if err != nil {
			return nil, nil, err
		}
	} else {
		dLogger.Warning("mysql is not set, shipment journal is disabled")
	}

	dsp := dispatcher.New(svc, rep, viper.GetInt("threads"), log.With(logger, "level", "dispatcher"))

	pcfg := proxy.Config{
		Dispatcher: dsp,
		Journal:    rep,
		Logger:     log.With(logger, "level", "proxy"),
	}

	server := &http0.Server{
		Addr:         viper.GetString("proxy.address"),
		Handler:      proxy.New(&pcfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  15 * 60 * time.Second,
	}

	g := &group.Group{}
	g.Add(func() error {
		dLogger.Info(fmt.Sprintf("Starting proxy at %s.", server.Addr))
		return server.ListenAndServe()
	}, func(error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	})

	return g, rep, nil
}

func initLoger(logPath, fileName string) log.Logger {
	var logger log.Logger
	if logPath == "" {
		logger = log.NewLogfmtLogger(os.Stderr)
	} else {
		if fileName == "" {
			fileName = "log"
		}
		p := path.Join(logPath, fmt.Sprintf("%s.log", fileName))
		logger = log.NewLogfmtLogger(&lumberjack.Logger{
			Filename:   p,
			MaxSize:    5, // megabytes
			MaxBackups: 5,
			MaxAge:     60, //days
		})
	}
	logger = log.With(logger, "ts", log.DefaultTimestamp)
	logger = log.With(logger, "caller", log.DefaultCaller)

	return logger
}

//ReadConfig init/read viper config
func readConfig() error {
	viper.SetDefault("folders.log", ".\\log") //Log folder
	viper.SetDefault("proxy.address", ":8080")
	viper.SetDefault("fedex.baseURL", "https://wsbeta.fedex.com:443/web-services/ship")
	viper.SetDefault("fedex.key", "")
	viper.SetDefault("fedex.password", "")
	viper.SetDefault("fedex.account", "")
	viper.SetDefault("fedex.meter", "")
	viper.SetDefault("fedex.debug", false)
	viper.SetDefault("fedex.timeout", 60) //seconds
	viper.SetDefault("mysql", "")
	viper.SetDefault("mysqlCreateSchema", false)
	viper.SetDefault("threads", 4) //concurrent shipments in batch

	path, err := osext.ExecutableFolder()
	if err != nil {
		path = "."
	}
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}
