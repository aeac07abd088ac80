package collector

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"

	"github.com/netscope/netscope/internal/domain"
)

// AWSCollector scans a region, mapping each VPC to a network. EC2
// instances and RDS databases inside it become the attached containers,
// with their private DNS endpoints as aliases.
type AWSCollector struct {
	ec2Client *ec2.Client
	rdsClient *rds.Client
}

// NewAWSCollector creates a collector for the specified region using the
// default AWS credential chain
func NewAWSCollector(ctx context.Context, region string) (*AWSCollector, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	return &AWSCollector{
		ec2Client: ec2.NewFromConfig(cfg),
		rdsClient: rds.NewFromConfig(cfg),
	}, nil
}

// Name identifies this source in merged snapshots
func (c *AWSCollector) Name() string {
	return "aws"
}

// Collect walks VPCs, EC2 instances and RDS databases. RDS discovery is
// non-fatal because many accounts scope credentials to EC2 only.
func (c *AWSCollector) Collect(ctx context.Context) (*domain.Snapshot, error) {
	snap := domain.NewSnapshot(c.Name())

	vpcNames, err := c.vpcNames(ctx)
	if err != nil {
		return nil, err
	}
	for _, name := range vpcNames {
		snap.AddNetwork(name)
	}

	if err := c.collectInstances(ctx, snap, vpcNames); err != nil {
		return nil, err
	}

	if err := c.collectDatabases(ctx, snap, vpcNames); err != nil {
		log.Printf("RDS describe failed (non-fatal): %v", err)
	}

	return snap, nil
}

// vpcNames maps VPC ids to display names, preferring the Name tag
func (c *AWSCollector) vpcNames(ctx context.Context) (map[string]string, error) {
	vpcs, err := c.ec2Client.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{})
	if err != nil {
		return nil, fmt.Errorf("describe VPCs: %w", err)
	}

	names := make(map[string]string, len(vpcs.Vpcs))
	for _, vpc := range vpcs.Vpcs {
		id := aws.ToString(vpc.VpcId)
		names[id] = id
		for _, tag := range vpc.Tags {
			if aws.ToString(tag.Key) == "Name" && aws.ToString(tag.Value) != "" {
				names[id] = aws.ToString(tag.Value)
			}
		}
	}
	return names, nil
}

func (c *AWSCollector) collectInstances(ctx context.Context, snap *domain.Snapshot, vpcNames map[string]string) error {
	reservations, err := c.ec2Client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{{
			Name:   aws.String("instance-state-name"),
			Values: []string{"running"},
		}},
	})
	if err != nil {
		return fmt.Errorf("describe EC2 instances: %w", err)
	}

	for _, res := range reservations.Reservations {
		for _, inst := range res.Instances {
			if inst.VpcId == nil {
				continue
			}
			network, ok := vpcNames[aws.ToString(inst.VpcId)]
			if !ok {
				network = aws.ToString(inst.VpcId)
				snap.AddNetwork(network)
			}

			instID := aws.ToString(inst.InstanceId)
			node := domain.NetworkNode{
				ContainerID:   instID,
				ContainerName: instID,
				IPAddress:     aws.ToString(inst.PrivateIpAddress),
			}
			for _, tag := range inst.Tags {
				switch aws.ToString(tag.Key) {
				case "Name":
					if v := aws.ToString(tag.Value); v != "" {
						node.ContainerName = v
					}
				case "Project":
					node.ComposeProject = aws.ToString(tag.Value)
				}
			}
			if dns := aws.ToString(inst.PrivateDnsName); dns != "" {
				node.Aliases = append(node.Aliases, dns)
			}

			snap.AddNode(network, node)
		}
	}
	return nil
}

func (c *AWSCollector) collectDatabases(ctx context.Context, snap *domain.Snapshot, vpcNames map[string]string) error {
	instances, err := c.rdsClient.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{})
	if err != nil {
		return err
	}

	for _, db := range instances.DBInstances {
		if db.DBSubnetGroup == nil || db.DBSubnetGroup.VpcId == nil {
			continue
		}
		network, ok := vpcNames[aws.ToString(db.DBSubnetGroup.VpcId)]
		if !ok {
			network = aws.ToString(db.DBSubnetGroup.VpcId)
			snap.AddNetwork(network)
		}

		id := aws.ToString(db.DBInstanceIdentifier)
		node := domain.NetworkNode{
			ContainerID:   id,
			ContainerName: id,
		}
		if db.Endpoint != nil {
			node.Aliases = append(node.Aliases, aws.ToString(db.Endpoint.Address))
		}

		snap.AddNode(network, node)
	}
	return nil
}
