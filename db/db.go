// Package db looks up song metadata in DynamoDB.
package db

import (
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"

	"github.com/jsphweid/pianovision/constants"
)

const batchLimit = 10

type SongMetadata struct {
	Title   string
	Artist  string
	Release string
	Year    uint
}

// GetSongMetadatas fetches metadata rows keyed by filename. Missing rows are
// simply absent from the result.
func GetSongMetadatas(filenames []string) (map[string]SongMetadata, error) {
	if len(filenames) > batchLimit {
		return nil, fmt.Errorf("at most %v filenames per batch, got %v", batchLimit, len(filenames))
	}

	res := make(map[string]SongMetadata)
	if len(filenames) == 0 {
		return res, nil
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, filename := range filenames {
		key := make(map[string]*dynamodb.AttributeValue)
		key["PK"] = &dynamodb.AttributeValue{
			S: aws.String(filename),
		}
		keys = append(keys, key)
	}

	config := aws.Config{}
	if endpoint := constants.GetMetadataDBEndpoint(); endpoint != "" {
		config.Region = aws.String("localhost")
		config.Endpoint = &endpoint
	}
	sess, err := session.NewSession(&config)
	if err != nil {
		return nil, fmt.Errorf("could not create DynamoDB session: %w", err)
	}

	client := dynamodb.New(sess)
	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			constants.MetadataTable: {Keys: keys},
		},
	}
	dbres, err := client.BatchGetItem(input)
	if err != nil {
		return nil, fmt.Errorf("error from DynamoDB: %w", err)
	}

	for _, v := range dbres.Responses[constants.MetadataTable] {
		var s SongMetadata
		if attr, ok := v["Year"]; ok && attr.N != nil {
			year, _ := strconv.ParseUint(*attr.N, 10, 32)
			s.Year = uint(year)
		}
		if attr, ok := v["Artist"]; ok && attr.S != nil {
			s.Artist = *attr.S
		}
		if attr, ok := v["Release"]; ok && attr.S != nil {
			s.Release = *attr.S
		}
		if attr, ok := v["Title"]; ok && attr.S != nil {
			s.Title = *attr.S
		}
		res[*v["PK"].S] = s
	}

	return res, nil
}
