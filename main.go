package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"bpnet/neuralnet"
)

// intList is a comma separated list of layer widths.
type intList []int

func (l *intList) String() string {
	s := make([]string, len(*l))
	for i, v := range *l {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, ",")
}

func (l *intList) Set(val string) error {
	var out []int
	for _, f := range strings.Split(val, ",") {
		if f = strings.TrimSpace(f); f == "" {
			continue
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return err
		}
		out = append(out, v)
	}
	*l = out
	return nil
}

// configPath finds the -config option ahead of flag parsing, so that the file
// supplies defaults which the remaining flags override.
func configPath(args []string) string {
	for i, a := range args {
		name := strings.TrimLeft(a, "-")
		if name == a {
			continue
		}
		if strings.HasPrefix(name, "config=") {
			return strings.TrimPrefix(name, "config=")
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("bpnet: ")

	conf := neuralnet.DefaultConfig()
	if path := configPath(os.Args[1:]); path != "" {
		var err error
		if conf, err = neuralnet.LoadConfig(path); err != nil {
			log.Fatal(err)
		}
	}

	flag.String("config", "", "JSON file with network settings")
	trainList := flag.String("train", "downgesture_train.list", "list of training images")
	testList := flag.String("test", "downgesture_test.list", "list of test images")
	root := flag.String("root", "", "directory relative image paths are resolved against")
	marker := flag.String("marker", "down", "images whose path contains this are positive examples")
	plotFile := flag.String("plot", "", "write the training error curve to this file (.svg, .png or .pdf)")
	hidden := intList(conf.HiddenLayers)
	flag.Var(&hidden, "hidden", "comma separated hidden layer widths")
	flag.StringVar(&conf.Activation, "activation", conf.Activation, "activation function: logistic or tanh")
	flag.Float64Var(&conf.LearningRate, "lr", conf.LearningRate, "learning rate")
	flag.IntVar(&conf.MaxIterations, "iterations", conf.MaxIterations, "max training iterations")
	flag.StringVar(&conf.WeightInit, "init", conf.WeightInit, "weight initializer: uniform or normal")
	flag.Float64Var(&conf.WeightLow, "wlow", conf.WeightLow, "lower bound of uniform initial weights")
	flag.Float64Var(&conf.WeightHigh, "whigh", conf.WeightHigh, "upper bound of uniform initial weights")
	flag.Float64Var(&conf.WeightMean, "wmean", conf.WeightMean, "mean of normal initial weights")
	flag.Float64Var(&conf.WeightStdDev, "wstddev", conf.WeightStdDev, "standard deviation of normal initial weights")
	flag.BoolVar(&conf.BinaryClassification, "binary", conf.BinaryClassification, "threshold logistic outputs to 0 or 1")
	flag.Float64Var(&conf.Tolerance, "tol", conf.Tolerance, "error tolerance for convergence")
	flag.IntVar(&conf.ConsecutiveConvergence, "consecutive", conf.ConsecutiveConvergence, "iterations within tolerance needed to stop")
	signal := flag.String("signal", string(conf.ErrorSignal), "convergence error signal: signed, absolute or squared")
	flag.Int64Var(&conf.RandSeed, "seed", conf.RandSeed, "random number seed, 0 seeds from the clock")
	flag.IntVar(&conf.LogEvery, "log", conf.LogEvery, "log progress every n iterations")
	flag.Parse()
	conf.HiddenLayers = hidden
	conf.ErrorSignal = neuralnet.ErrorSignal(*signal)

	if err := run(conf, *trainList, *testList, *root, *marker, *plotFile); err != nil {
		log.Fatal(err)
	}
}

func run(conf neuralnet.Config, trainList, testList, root, marker, plotFile string) error {
	nn, err := neuralnet.NewNeuralNetwork(conf)
	if err != nil {
		return err
	}
	nn.SetLogger(log.Default())
	fmt.Println(conf)

	paths, err := readList(trainList)
	if err != nil {
		return err
	}
	images, labels, err := loadImages(paths, root, marker)
	if err != nil {
		return err
	}
	train, err := neuralnet.NewDataset(images, labels)
	if err != nil {
		return err
	}

	var curve errorCurve
	if plotFile != "" {
		nn.SetObserver(curve.observe)
	}
	res, err := nn.Train(train)
	if err != nil {
		return err
	}
	fmt.Printf("Neural network converged=%v at iteration %d\n", res.Converged, res.Iterations)
	fmt.Println("Total input numbers =", train.Len())
	acc, err := nn.Accuracy(train)
	if err != nil {
		return errors.Wrap(err, "training accuracy")
	}
	fmt.Printf("Training accuracy: %.2f%%\n", acc*100)
	if plotFile != "" {
		if err := curve.save(plotFile); err != nil {
			return err
		}
	}

	tests, err := readList(testList)
	if err != nil {
		return err
	}
	if len(tests) == 0 {
		return errors.Errorf("%s lists no images", testList)
	}
	correct, err := evaluate(nn, tests, root, marker)
	if err != nil {
		return err
	}
	fmt.Printf("Accuracy: correct rate: %.2f%%\n", float64(correct)/float64(len(tests))*100)
	return nil
}

// evaluate predicts every listed image, prints one line per image and returns
// how many were classified correctly.
func evaluate(nn *neuralnet.NeuralNetwork, paths []string, root, marker string) (int, error) {
	correct := 0
	for _, listed := range paths {
		images, _, err := loadImages([]string{listed}, root, marker)
		if err != nil {
			return correct, err
		}
		x := images.Data().([]float64)
		out, err := nn.Predict(x)
		if err != nil {
			return correct, err
		}
		predicted := neuralnet.Classify(out)
		match := "X"
		if predicted == (labelFor(listed, marker) == 1) {
			match = "O"
			correct++
		}
		pred := "False"
		if predicted {
			pred = "True"
		}
		fmt.Printf("Match(%s)=>%s: Predict=%s, Output value=%v\n", match, listed, pred, out)
	}
	return correct, nil
}
