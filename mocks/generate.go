package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/janucaria/himada/pkg/marketdata/provider Provider
//go:generate mockgen -destination=./mock_writer.go -package=mocks github.com/janucaria/himada/pkg/marketdata/writer SeriesWriter
