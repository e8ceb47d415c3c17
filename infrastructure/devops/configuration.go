package devops

import (
	"context"
	"fmt"

	"checadas.com/ponches/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type ParameterAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ConnectParameterStore builds an SSM client from the default AWS
// configuration.
func ConnectParameterStore(ctx context.Context) (*ssm.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// LoadConfig merges the YAML document stored in an SSM parameter into cfg.
// The parameter is decrypted when it is a SecureString.
func LoadConfig(ctx context.Context, client ParameterAPI, paramName string, cfg *config.Config) error {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("get parameter %s: %w", paramName, err)
	}

	if out.Parameter == nil || out.Parameter.Value == nil {
		return fmt.Errorf("parameter %s is empty", paramName)
	}

	if err := config.Merge(cfg, []byte(*out.Parameter.Value)); err != nil {
		return fmt.Errorf("parameter %s: %w", paramName, err)
	}
	return nil
}
