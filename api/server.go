package api

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/SYCompass/syrianzone-tierlist/api/controllers"
	"github.com/SYCompass/syrianzone-tierlist/api/transport"
	"github.com/SYCompass/syrianzone-tierlist/export"
	"github.com/SYCompass/syrianzone-tierlist/logging"
	"github.com/SYCompass/syrianzone-tierlist/storage"
)

type Server struct {
	config *Config
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Start() {
	r := transport.NewRouter(gin.DebugMode)

	// Create storage
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logging.Log.Errorf("failed to load AWS config: %v", err)
		panic("failed to load AWS config")
	}

	dynamoClient := dynamodb.NewFromConfig(cfg)

	pollStorage := &storage.DynamoPollStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNamePolls,
	}
	groupStorage := &storage.DynamoCandidateGroupStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameGroups,
	}
	candidateStorage := &storage.DynamoCandidateStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameCandidates,
	}
	submissionStorage := &storage.DynamoSubmissionStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameSubmissions,
	}

	exporter, err := export.NewExporter(export.Options{
		Width:        s.config.ExportConfig.Width,
		FontPath:     s.config.ExportConfig.FontPath,
		BoldFontPath: s.config.ExportConfig.BoldFontPath,
		LogoPath:     s.config.ExportConfig.LogoPath,
		Caption:      s.config.ExportConfig.Caption,
	})
	if err != nil {
		logging.Log.Errorf("failed to create exporter: %v", err)
		panic("failed to create exporter")
	}

	//Register controllers
	votingController := controllers.NewVotingController(pollStorage, groupStorage, candidateStorage, submissionStorage, s.config.MinSelections)
	votingController.RegisterRoutes(r)
	exportController := controllers.NewExportController(candidateStorage, submissionStorage, exporter)
	exportController.RegisterRoutes(r)
	pollMetaController := controllers.NewPollMetaController(pollStorage)
	pollMetaController.RegisterRoutes(r)
	groupMetaController := controllers.NewGroupMetaController(groupStorage)
	groupMetaController.RegisterRoutes(r)
	candidateMetaController := controllers.NewCandidateMetaController(candidateStorage)
	candidateMetaController.RegisterRoutes(r)

	//Do not run lambda helper locally
	if os.Getenv("APP_ENV") == "local" {
		startLocal(r, s.config.Port)
	} else {
		startLambda(r)
	}
}

// StartLambda sets up for AWS Lambda
func startLambda(engine *gin.Engine) {
	ginLambda := ginadapter.NewV2(engine)

	handler := func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		logging.Log.Infof("Lambda handler triggered on path: %s", req.RawPath)
		return ginLambda.ProxyWithContext(ctx, req)
	}

	logging.Log.Info("Starting lambda")
	lambda.Start(handler)
}

// StartLocal starts a normal HTTP server on the configured port
func startLocal(engine *gin.Engine, port int) {
	logging.Log.Info(fmt.Sprintf("Starting server on http://localhost:%d", port))

	if err := engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
