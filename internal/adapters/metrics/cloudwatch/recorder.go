// Package cloudwatch implementa metrics.Recorder con PutMetricData.
package cloudwatch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cw "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const DefaultNamespace = "ContactNotes"

type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cw.PutMetricDataInput, optFns ...func(*cw.Options)) (*cw.PutMetricDataOutput, error)
}

type Recorder struct {
	client    CloudWatchAPI
	namespace string
	now       func() time.Time
}

func NewRecorder(client CloudWatchAPI, namespace string) *Recorder {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Recorder{client: client, namespace: namespace, now: time.Now}
}

// Incr publica un datapoint Count=1. Sin buffer: las métricas del dominio son de baja frecuencia.
func (r *Recorder) Incr(ctx context.Context, name string, dims map[string]string) error {
	keys := make([]string, 0, len(dims))
	for k := range dims {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	dimensions := make([]cwtypes.Dimension, 0, len(keys))
	for _, k := range keys {
		dimensions = append(dimensions, cwtypes.Dimension{
			Name:  aws.String(k),
			Value: aws.String(dims[k]),
		})
	}

	_, err := r.client.PutMetricData(ctx, &cw.PutMetricDataInput{
		Namespace: aws.String(r.namespace),
		MetricData: []cwtypes.MetricDatum{{
			MetricName: aws.String(name),
			Dimensions: dimensions,
			Timestamp:  aws.Time(r.now().UTC()),
			Unit:       cwtypes.StandardUnitCount,
			Value:      aws.Float64(1),
		}},
	})
	if err != nil {
		return fmt.Errorf("put metric %s: %w", name, err)
	}
	return nil
}
